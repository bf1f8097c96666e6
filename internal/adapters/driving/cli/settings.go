package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/meridian-labs/grounded/internal/adapters/driven/config/file"
	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change configuration",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective configuration",
	RunE:  runSettingsList,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a dotted configuration key, e.g.:

  grounded settings set session.top_k 5
  grounded settings set session.rag_enabled false
  grounded settings set embedding.provider ollama`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func newSettingsService() (*services.SettingsService, error) {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return err
	}

	cmd.Printf("index.backend                 = %s\n", settings.Index.Backend)
	cmd.Printf("index.name                    = %s\n", settings.Index.Name)
	cmd.Printf("index.address                 = %s\n", settings.Index.Address)
	cmd.Printf("embedding.provider            = %s\n", settings.Embedding.Provider)
	cmd.Printf("embedding.model               = %s\n", settings.Embedding.Model)
	cmd.Printf("embedding.dimensions          = %d\n", settings.Embedding.Dimensions)
	cmd.Printf("generation.provider           = %s\n", settings.Generation.Provider)
	cmd.Printf("generation.model              = %s\n", settings.Generation.Model)
	cmd.Printf("ingest.workers                = %d\n", settings.Ingest.Workers)
	cmd.Printf("retrieval.enforce_threshold   = %t\n", settings.Retrieval.EnforceThreshold)
	cmd.Printf("session.max_tokens            = %d\n", settings.Session.MaxTokens)
	cmd.Printf("session.temperature           = %g\n", settings.Session.Temperature)
	cmd.Printf("session.top_k                 = %d\n", settings.Session.TopK)
	cmd.Printf("session.top_n                 = %d\n", settings.Session.TopN)
	cmd.Printf("session.similarity_threshold  = %g\n", settings.Session.SimilarityThreshold)
	cmd.Printf("session.rag_enabled           = %t\n", settings.Session.RAGEnabled)
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return err
	}

	value, ok := settingsValue(settings, args[0])
	if !ok {
		return fmt.Errorf("unknown setting %q", args[0])
	}
	cmd.Println(value)
	return nil
}

// settingsValue resolves a dotted key against the effective settings.
// Credentials are not exposed here.
func settingsValue(s *domain.AppSettings, key string) (string, bool) {
	switch key {
	case "index.backend":
		return s.Index.Backend, true
	case "index.name":
		return s.Index.Name, true
	case "index.address":
		return s.Index.Address, true
	case "embedding.provider":
		return s.Embedding.Provider, true
	case "embedding.model":
		return s.Embedding.Model, true
	case "embedding.base_url":
		return s.Embedding.BaseURL, true
	case "embedding.dimensions":
		return strconv.Itoa(s.Embedding.Dimensions), true
	case "generation.provider":
		return s.Generation.Provider, true
	case "generation.model":
		return s.Generation.Model, true
	case "generation.base_url":
		return s.Generation.BaseURL, true
	case "ingest.workers":
		return strconv.Itoa(s.Ingest.Workers), true
	case "retrieval.enforce_threshold":
		return strconv.FormatBool(s.Retrieval.EnforceThreshold), true
	case "session.max_tokens":
		return strconv.Itoa(s.Session.MaxTokens), true
	case "session.temperature":
		return strconv.FormatFloat(s.Session.Temperature, 'g', -1, 64), true
	case "session.top_k":
		return strconv.Itoa(s.Session.TopK), true
	case "session.top_n":
		return strconv.Itoa(s.Session.TopN), true
	case "session.similarity_threshold":
		return strconv.FormatFloat(s.Session.SimilarityThreshold, 'g', -1, 64), true
	case "session.rag_enabled":
		return strconv.FormatBool(s.Session.RAGEnabled), true
	default:
		return "", false
	}
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := svc.Set(key, parseSettingValue(raw)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	// Round-trip through Get so an invalid value is caught immediately.
	if _, err := svc.Get(); err != nil {
		return fmt.Errorf("new value rejected: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

// parseSettingValue keeps TOML types intact: booleans and numbers are
// stored typed, everything else as a string.
func parseSettingValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

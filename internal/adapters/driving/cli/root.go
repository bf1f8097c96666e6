// Package cli provides the cobra command tree for the grounded binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/meridian-labs/grounded/internal/adapters/driven/config/file"
	embollama "github.com/meridian-labs/grounded/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/meridian-labs/grounded/internal/adapters/driven/embedding/openai"
	gencohere "github.com/meridian-labs/grounded/internal/adapters/driven/generation/cohere"
	genopenai "github.com/meridian-labs/grounded/internal/adapters/driven/generation/openai"
	idxmemory "github.com/meridian-labs/grounded/internal/adapters/driven/index/memory"
	idxopensearch "github.com/meridian-labs/grounded/internal/adapters/driven/index/opensearch"
	ledgersqlite "github.com/meridian-labs/grounded/internal/adapters/driven/ledger/sqlite"
	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
	"github.com/meridian-labs/grounded/internal/core/ports/driving"
	"github.com/meridian-labs/grounded/internal/core/services"
	"github.com/meridian-labs/grounded/internal/extractors"
	"github.com/meridian-labs/grounded/internal/extractors/pdf"
	"github.com/meridian-labs/grounded/internal/extractors/plaintext"
	"github.com/meridian-labs/grounded/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0"

// Persistent flags.
var (
	verbose      bool
	configDir    string
	dataDir      string
	indexBackend string
)

// Services wired by initServices.
var (
	settingsService *services.SettingsService
	chatService     driving.ChatService
	ingestService   driving.IngestService
	ledgerStore     *ledgersqlite.Ledger
)

var rootCmd = &cobra.Command{
	Use:   "grounded",
	Short: "Page-level RAG over your documents",
	Long: `grounded ingests documents page by page into a vector index and
answers questions grounded on the most similar pages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.grounded)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.grounded/data)")
	rootCmd.PersistentFlags().StringVar(&indexBackend, "index", "", "index backend override (opensearch, memory)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the full pipeline from configuration. Commands
// that talk to the pipeline call this from their RunE. Services that
// are already wired are left alone.
func initServices() error {
	if chatService != nil && ingestService != nil {
		return nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if indexBackend != "" {
		settings.Index.Backend = indexBackend
	}

	embedding, err := buildEmbedding(settings)
	if err != nil {
		return err
	}
	generation, err := buildGeneration(settings)
	if err != nil {
		return err
	}
	index, err := buildIndex(settings)
	if err != nil {
		return err
	}

	registry := extractors.NewRegistry(pdf.New(), plaintext.New())

	ingest := services.NewIngestService(registry, embedding, index)
	ingest.SetWorkers(settings.Ingest.Workers)

	ledgerStore, err = ledgersqlite.NewLedger(dataDir)
	if err != nil {
		logger.Warn("Ingest ledger unavailable: %v", err)
	} else {
		ingest.SetLedger(ledgerStore)
	}
	ingestService = ingest

	retrieval := services.NewRetrievalService(embedding, index)
	retrieval.SetEnforceThreshold(settings.Retrieval.EnforceThreshold)

	chat, err := services.NewChatService(settings.Session, retrieval, generation)
	if err != nil {
		return fmt.Errorf("creating chat service: %w", err)
	}
	chatService = chat

	return nil
}

func buildEmbedding(settings *domain.AppSettings) (driven.EmbeddingService, error) {
	switch settings.Embedding.Provider {
	case domain.ProviderOpenAI:
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:     settings.Embedding.APIKey,
			BaseURL:    settings.Embedding.BaseURL,
			Model:      settings.Embedding.Model,
			Dimensions: settings.Embedding.Dimensions,
		})
	case domain.ProviderOllama:
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL:    settings.Embedding.BaseURL,
			Model:      settings.Embedding.Model,
			Dimensions: settings.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.Embedding.Provider)
	}
}

func buildGeneration(settings *domain.AppSettings) (driven.GenerationService, error) {
	switch settings.Generation.Provider {
	case domain.ProviderCohere:
		return gencohere.NewGenerationService(gencohere.Config{
			APIKey:  settings.Generation.APIKey,
			BaseURL: settings.Generation.BaseURL,
			Model:   settings.Generation.Model,
		})
	case domain.ProviderOpenAI:
		return genopenai.NewGenerationService(genopenai.Config{
			APIKey:  settings.Generation.APIKey,
			BaseURL: settings.Generation.BaseURL,
			Model:   settings.Generation.Model,
		})
	default:
		return nil, fmt.Errorf("unknown generation provider %q", settings.Generation.Provider)
	}
}

func buildIndex(settings *domain.AppSettings) (driven.VectorIndex, error) {
	switch settings.Index.Backend {
	case "opensearch":
		return idxopensearch.New(idxopensearch.Config{
			Address:  settings.Index.Address,
			Username: settings.Index.Username,
			Password: settings.Index.Password,
			Index:    settings.Index.Name,
		})
	case "memory":
		return idxmemory.New(settings.Index.Name), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", settings.Index.Backend)
	}
}

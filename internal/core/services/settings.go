package services

import (
	"fmt"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyIndexBackend  = "index.backend"
	keyIndexName     = "index.name"
	keyIndexAddress  = "index.address"
	keyIndexUsername = "index.username"
	keyIndexPassword = "index.password"

	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"

	keyGenProvider = "generation.provider"
	keyGenModel    = "generation.model"
	keyGenBaseURL  = "generation.base_url"
	keyGenAPIKey   = "generation.api_key"

	keyIngestWorkers = "ingest.workers"

	keyRetrievalEnforceThreshold = "retrieval.enforce_threshold"

	keySessionMaxTokens   = "session.max_tokens"
	keySessionTemperature = "session.temperature"
	keySessionTopK        = "session.top_k"
	keySessionTopN        = "session.top_n"
	keySessionSimilarity  = "session.similarity_threshold"
	keySessionRAGEnabled  = "session.rag_enabled"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults
// for anything not configured.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Index: domain.IndexSettings{
			Backend:  s.getString(keyIndexBackend, defaults.Index.Backend),
			Name:     s.getString(keyIndexName, defaults.Index.Name),
			Address:  s.getString(keyIndexAddress, defaults.Index.Address),
			Username: s.configStore.GetString(keyIndexUsername),
			Password: s.configStore.GetString(keyIndexPassword),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getString(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
		},
		Generation: domain.GenerationSettings{
			Provider: s.getString(keyGenProvider, defaults.Generation.Provider),
			Model:    s.getString(keyGenModel, defaults.Generation.Model),
			BaseURL:  s.configStore.GetString(keyGenBaseURL),
			APIKey:   s.configStore.GetString(keyGenAPIKey),
		},
		Ingest: domain.IngestSettings{
			Workers: s.getInt(keyIngestWorkers, defaults.Ingest.Workers),
		},
		Retrieval: domain.RetrievalSettings{
			EnforceThreshold: s.getBool(keyRetrievalEnforceThreshold, defaults.Retrieval.EnforceThreshold),
		},
		Session: domain.SessionParams{
			MaxTokens:           s.getInt(keySessionMaxTokens, defaults.Session.MaxTokens),
			Temperature:         s.getFloat(keySessionTemperature, defaults.Session.Temperature),
			TopK:                s.getInt(keySessionTopK, defaults.Session.TopK),
			TopN:                s.getInt(keySessionTopN, defaults.Session.TopN),
			SimilarityThreshold: s.getFloat(keySessionSimilarity, defaults.Session.SimilarityThreshold),
			RAGEnabled:          s.getBool(keySessionRAGEnabled, defaults.Session.RAGEnabled),
		},
	}

	if err := settings.Session.Validate(); err != nil {
		return nil, fmt.Errorf("configured session params: %w", err)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Session.Validate(); err != nil {
		return err
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keyIndexBackend, settings.Index.Backend},
		{keyIndexName, settings.Index.Name},
		{keyIndexAddress, settings.Index.Address},
		{keyEmbedProvider, settings.Embedding.Provider},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyGenProvider, settings.Generation.Provider},
		{keyGenModel, settings.Generation.Model},
		{keyGenBaseURL, settings.Generation.BaseURL},
		{keyIngestWorkers, settings.Ingest.Workers},
		{keyRetrievalEnforceThreshold, settings.Retrieval.EnforceThreshold},
		{keySessionMaxTokens, settings.Session.MaxTokens},
		{keySessionTemperature, settings.Session.Temperature},
		{keySessionTopK, settings.Session.TopK},
		{keySessionTopN, settings.Session.TopN},
		{keySessionSimilarity, settings.Session.SimilarityThreshold},
		{keySessionRAGEnabled, settings.Session.RAGEnabled},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// Credentials are only written when present, so a partial settings
	// struct cannot blank stored secrets.
	if settings.Index.Username != "" {
		if err := s.configStore.Set(keyIndexUsername, settings.Index.Username); err != nil {
			return fmt.Errorf("save %s: %w", keyIndexUsername, err)
		}
	}
	if settings.Index.Password != "" {
		if err := s.configStore.Set(keyIndexPassword, settings.Index.Password); err != nil {
			return fmt.Errorf("save %s: %w", keyIndexPassword, err)
		}
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.Generation.APIKey != "" {
		if err := s.configStore.Set(keyGenAPIKey, settings.Generation.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyGenAPIKey, err)
		}
	}

	return nil
}

// Set writes a single dotted key. The value is parsed against the key's
// expected type via Get on the next read, so mistyped writes surface as
// defaults rather than errors.
func (s *SettingsService) Set(key string, value any) error {
	return s.configStore.Set(key, value)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

func TestSettingsGetDefaults(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "opensearch", settings.Index.Backend)
	assert.Equal(t, "documents", settings.Index.Name)
	assert.Equal(t, domain.ProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, 1536, settings.Embedding.Dimensions)
	assert.Equal(t, domain.ProviderCohere, settings.Generation.Provider)
	assert.Equal(t, 4, settings.Ingest.Workers)
	assert.False(t, settings.Retrieval.EnforceThreshold)
	assert.Equal(t, domain.DefaultSessionParams(), settings.Session)
}

func TestSettingsGetReadsConfiguredValues(t *testing.T) {
	store := newMockConfigStore()
	require.NoError(t, store.Set("index.backend", "memory"))
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.dimensions", 768))
	require.NoError(t, store.Set("session.top_k", 5))
	require.NoError(t, store.Set("session.rag_enabled", false))
	require.NoError(t, store.Set("retrieval.enforce_threshold", true))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "memory", settings.Index.Backend)
	assert.Equal(t, "ollama", settings.Embedding.Provider)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
	assert.Equal(t, 5, settings.Session.TopK)
	assert.False(t, settings.Session.RAGEnabled)
	assert.True(t, settings.Retrieval.EnforceThreshold)
}

func TestSettingsGetZeroTemperatureSticks(t *testing.T) {
	// Temperature 0.0 is a deliberate setting, not an absent one.
	store := newMockConfigStore()
	require.NoError(t, store.Set("session.temperature", 0.0))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.0, settings.Session.Temperature)
}

func TestSettingsGetRejectsInvalidSession(t *testing.T) {
	store := newMockConfigStore()
	require.NoError(t, store.Set("session.max_tokens", -5))

	svc := NewSettingsService(store)
	_, err := svc.Get()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Index.Backend = "memory"
	settings.Embedding.APIKey = "sk-secret"
	settings.Session.TopK = 9
	require.NoError(t, svc.Save(&settings))

	loaded, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "memory", loaded.Index.Backend)
	assert.Equal(t, "sk-secret", loaded.Embedding.APIKey)
	assert.Equal(t, 9, loaded.Session.TopK)
}

func TestSettingsSaveSkipsEmptySecrets(t *testing.T) {
	store := newMockConfigStore()
	require.NoError(t, store.Set("embedding.api_key", "sk-old"))

	svc := NewSettingsService(store)
	settings := domain.DefaultAppSettings()
	require.NoError(t, svc.Save(&settings))

	loaded, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-old", loaded.Embedding.APIKey, "empty key must not blank the stored secret")
}

func TestSettingsSaveRejectsInvalidSession(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore())

	settings := domain.DefaultAppSettings()
	settings.Session.SimilarityThreshold = 1.5
	err := svc.Save(&settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// mockEmbedding is a deterministic in-memory embedding service. Each
// text embeds to a fixed-size vector derived from its length unless an
// explicit vector or error is registered for it.
type mockEmbedding struct {
	mu      sync.Mutex
	dims    int
	vectors map[string][]float32
	errors  map[string]error
	calls   []string
}

var _ driven.EmbeddingService = (*mockEmbedding)(nil)

func newMockEmbedding(dims int) *mockEmbedding {
	return &mockEmbedding{
		dims:    dims,
		vectors: make(map[string][]float32),
		errors:  make(map[string]error),
	}
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)

	if err, ok := m.errors[text]; ok {
		return nil, err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = float32(len(text))
	}
	return v, nil
}

func (m *mockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int            { return m.dims }
func (m *mockEmbedding) ModelName() string          { return "mock-embed" }
func (m *mockEmbedding) Ping(context.Context) error { return nil }
func (m *mockEmbedding) Close() error               { return nil }

func (m *mockEmbedding) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockIndex records upserts and serves canned search hits.
type mockIndex struct {
	mu           sync.Mutex
	ensured      int
	ensureCalls  int
	ensureErr    error
	upsertErr    map[string]error
	upsertAllErr error
	records      map[string]domain.IndexedRecord
	hits         []driven.IndexHit
	searchErr    error
	searches     int
	lastVector   []float32
	lastK        int
}

var _ driven.VectorIndex = (*mockIndex)(nil)

func newMockIndex() *mockIndex {
	return &mockIndex{
		upsertErr: make(map[string]error),
		records:   make(map[string]domain.IndexedRecord),
	}
}

func (m *mockIndex) EnsureSchema(_ context.Context, dimensions int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls++
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.ensured = dimensions
	return nil
}

func (m *mockIndex) Upsert(_ context.Context, record domain.IndexedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertAllErr != nil {
		return m.upsertAllErr
	}
	if err, ok := m.upsertErr[record.Key]; ok {
		return err
	}
	m.records[record.Key] = record
	return nil
}

func (m *mockIndex) Search(_ context.Context, vector []float32, k int) ([]driven.IndexHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	m.lastVector = vector
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockIndex) Close() error { return nil }

// mockGeneration returns a canned result and remembers the last prompt.
type mockGeneration struct {
	mu         sync.Mutex
	result     domain.GenerationResult
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
	calls      int
}

var _ driven.GenerationService = (*mockGeneration)(nil)

func (m *mockGeneration) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (domain.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return m.result, nil
}

func (m *mockGeneration) ModelName() string          { return "mock-gen" }
func (m *mockGeneration) Ping(context.Context) error { return nil }
func (m *mockGeneration) Close() error               { return nil }

// mockLedger captures recorded runs.
type mockLedger struct {
	mu       sync.Mutex
	recorded []*domain.IngestReport
	err      error
}

var _ driven.IngestLedger = (*mockLedger)(nil)

func (m *mockLedger) RecordRun(_ context.Context, report *domain.IngestReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, report)
	return nil
}

func (m *mockLedger) GetRun(_ context.Context, documentID string) (*domain.IngestReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recorded {
		if r.DocumentID == documentID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("run %q: %w", documentID, domain.ErrNotFound)
}

func (m *mockLedger) ListRuns(context.Context, int) ([]domain.IngestReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.IngestReport, 0, len(m.recorded))
	for i := len(m.recorded) - 1; i >= 0; i-- {
		out = append(out, *m.recorded[i])
	}
	return out, nil
}

func (m *mockLedger) Close() error { return nil }

// mockExtractor streams canned pages for a MIME type.
type mockExtractor struct {
	mimeTypes []string
	pages     []domain.ExtractedPage
	openErr   error
}

var _ driven.PageExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) SupportedMIMETypes() []string { return m.mimeTypes }

func (m *mockExtractor) Extract(ctx context.Context, _ *domain.SourceDocument) (<-chan domain.ExtractedPage, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	out := make(chan domain.ExtractedPage)
	go func() {
		defer close(out)
		for _, p := range m.pages {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// mockConfigStore is an in-memory driven.ConfigStore.
type mockConfigStore struct {
	mu   sync.RWMutex
	data map[string]any
}

var _ driven.ConfigStore = (*mockConfigStore)(nil)

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	v, _ := m.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	v, _ := m.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

package driven

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// VectorIndex owns the vector-index schema and record CRUD. The index
// name is adapter configuration, injected at construction; the core only
// ever talks to one index per pipeline.
type VectorIndex interface {
	// EnsureSchema creates the index with the given embedding dimension
	// and a k-NN-capable vector field if it does not exist, and no-ops
	// if it does. An existing index with a different dimension is
	// reported as *domain.SchemaMismatchError and never altered.
	// Safe under concurrent callers: a creation race that resolves to
	// "already exists" is tolerated.
	EnsureSchema(ctx context.Context, dimensions int) error

	// Upsert writes one record, replacing any record with the same key.
	// Re-ingesting a page is therefore idempotent by key. An embedding
	// whose length differs from the declared dimension is rejected with
	// domain.ErrDimensionMismatch before the write.
	Upsert(ctx context.Context, record domain.IndexedRecord) error

	// Search returns up to k nearest records by vector similarity, best
	// first, each with its score and stored body. No tie-break is
	// guaranteed beyond the similarity metric; adapters document the
	// deterministic tie-break their engine provides.
	Search(ctx context.Context, vector []float32, k int) ([]IndexHit, error)

	// Close releases resources.
	Close() error
}

// IndexHit is one similarity-search result.
type IndexHit struct {
	// Key is the composite record key.
	Key string

	// DocumentID and PageNumber identify the stored page.
	DocumentID string
	PageNumber int

	// Body is the stored page text.
	Body string

	// Score is the similarity score, higher is more similar.
	Score float64
}

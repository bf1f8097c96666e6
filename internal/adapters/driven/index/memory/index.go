// Package memory provides an in-process implementation of the vector
// index, used by tests and the local index mode. Search is an exact
// cosine-similarity scan; ties are broken by ascending record key.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory vector index.
type Index struct {
	mu         sync.RWMutex
	name       string
	dimensions int
	records    map[string]domain.IndexedRecord
}

// New creates an empty index with the given name. The schema is not
// declared until EnsureSchema is called.
func New(name string) *Index {
	return &Index{
		name:    name,
		records: make(map[string]domain.IndexedRecord),
	}
}

// EnsureSchema declares the embedding dimension. Idempotent: repeating
// the same dimension is a no-op, a different dimension is rejected.
func (i *Index) EnsureSchema(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dimensions == 0 {
		i.dimensions = dimensions
		return nil
	}
	if i.dimensions != dimensions {
		return &domain.SchemaMismatchError{Index: i.name, Want: dimensions, Got: i.dimensions}
	}
	return nil
}

// Upsert stores a record, replacing any record with the same key.
func (i *Index) Upsert(_ context.Context, record domain.IndexedRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dimensions == 0 {
		return fmt.Errorf("index %q: %w: schema not created", i.name, domain.ErrSchemaMismatch)
	}
	if len(record.Embedding) != i.dimensions {
		return fmt.Errorf("index %q: %w: got %d, want %d",
			i.name, domain.ErrDimensionMismatch, len(record.Embedding), i.dimensions)
	}

	// Copy the embedding so callers can't mutate the stored vector.
	stored := record
	stored.Embedding = append([]float32(nil), record.Embedding...)
	i.records[record.Key] = stored
	return nil
}

// Search returns up to k records by descending cosine similarity.
func (i *Index) Search(_ context.Context, vector []float32, k int) ([]driven.IndexHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.dimensions == 0 {
		return nil, fmt.Errorf("index %q: %w: schema not created", i.name, domain.ErrSchemaMismatch)
	}
	if len(vector) != i.dimensions {
		return nil, fmt.Errorf("index %q: %w: query vector has %d, want %d",
			i.name, domain.ErrDimensionMismatch, len(vector), i.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]driven.IndexHit, 0, len(i.records))
	for key, rec := range i.records {
		hits = append(hits, driven.IndexHit{
			Key:        key,
			DocumentID: rec.DocumentID,
			PageNumber: rec.PageNumber,
			Body:       rec.Body,
			Score:      cosine(vector, rec.Embedding),
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Key < hits[b].Key
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored records.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		na += float64(a[n]) * float64(a[n])
		nb += float64(b[n]) * float64(b[n])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
	"github.com/meridian-labs/grounded/internal/logger"
)

// RetrievalService finds the pages most similar to a query.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	enforceThreshold bool

	// mu guards schemaReady. The schema is ensured before the first
	// search so a process that never ingested can still query an index
	// created by an earlier run.
	mu          sync.Mutex
	schemaReady bool
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
) *RetrievalService {
	return &RetrievalService{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
	}
}

// SetEnforceThreshold enables dropping passages that score below the
// similarity threshold passed to Retrieve. When disabled (the default)
// the threshold is ignored and ranking alone decides what is returned.
func (s *RetrievalService) SetEnforceThreshold(on bool) {
	s.enforceThreshold = on
}

// ensureSchema ensures the index schema once per service lifetime,
// retrying on the next call if it failed.
func (s *RetrievalService) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schemaReady {
		return nil
	}
	if err := s.vectorIndex.EnsureSchema(ctx, s.embeddingService.Dimensions()); err != nil {
		return err
	}
	s.schemaReady = true
	return nil
}

// Retrieve embeds the query and returns up to topK passages, best
// first. An empty index yields an empty context, not an error.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, topK int, minSimilarity float64,
) (domain.RetrievedContext, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RetrievedContext{}, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		return domain.RetrievedContext{}, nil
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (top_k=%d)", query, topK)

	if err := s.ensureSchema(ctx); err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("ensure index schema: %w", err)
	}

	vector, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, vector, topK)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("search index: %w", err)
	}

	passages := make([]domain.RetrievedPassage, 0, len(hits))
	for _, hit := range hits {
		if s.enforceThreshold && hit.Score < minSimilarity {
			logger.Debug("Dropping %s: score %.4f below threshold %.4f", hit.Key, hit.Score, minSimilarity)
			continue
		}
		passages = append(passages, domain.RetrievedPassage{
			Key:        hit.Key,
			DocumentID: hit.DocumentID,
			PageNumber: hit.PageNumber,
			Body:       hit.Body,
			Similarity: hit.Score,
		})
	}

	logger.Debug("Retrieved %d passage(s)", len(passages))
	return domain.RetrievedContext{Passages: passages}, nil
}

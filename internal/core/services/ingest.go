package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
	"github.com/meridian-labs/grounded/internal/core/ports/driving"
	"github.com/meridian-labs/grounded/internal/extractors"
	"github.com/meridian-labs/grounded/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultIngestWorkers is the default page worker pool size.
const DefaultIngestWorkers = 4

// IngestService indexes documents page by page. Ingestion is
// best-effort: a page that fails to extract, embed or index is recorded
// in the report and the remaining pages continue.
type IngestService struct {
	registry         *extractors.Registry
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	ledger           driven.IngestLedger
	workers          int
	now              func() time.Time
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry *extractors.Registry,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
) *IngestService {
	return &IngestService{
		registry:         registry,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		workers:          DefaultIngestWorkers,
		now:              time.Now,
	}
}

// SetLedger sets the ledger that records completed runs. Optional:
// without a ledger, runs are only reported to the caller.
func (s *IngestService) SetLedger(ledger driven.IngestLedger) {
	s.ledger = ledger
}

// SetWorkers sets the page worker pool size.
func (s *IngestService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// IngestFile reads the file at path and ingests it, inferring the MIME
// type from the extension.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*domain.IngestReport, error) {
	mimeType := extractors.MIMETypeForPath(path)
	if mimeType == "" {
		return nil, fmt.Errorf("%w: unrecognised extension %q", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return s.IngestDocument(ctx, &domain.SourceDocument{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Content:  content,
	})
}

// IngestDocument indexes every page of the source document under a
// freshly minted document ID. Each call mints a new ID, so re-ingesting
// the same file adds new records rather than replacing old ones; the
// ledger keeps that observable.
func (s *IngestService) IngestDocument(ctx context.Context, src *domain.SourceDocument) (*domain.IngestReport, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source document is nil", domain.ErrInvalidInput)
	}

	extractor, err := s.registry.ForMIMEType(src.MIMEType)
	if err != nil {
		return nil, err
	}

	if err := s.vectorIndex.EnsureSchema(ctx, s.embeddingService.Dimensions()); err != nil {
		return nil, fmt.Errorf("ensure index schema: %w", err)
	}

	startedAt := s.now()
	documentID := domain.NewDocumentID(startedAt)

	logger.Section("Ingestion")
	logger.Info("Ingesting %q as %s", src.Name, documentID)

	pages, err := extractor.Extract(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", src.Name, err)
	}

	var mu sync.Mutex
	var results []domain.PageResult

	record := func(r domain.PageResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for page := range pages {
		if page.Err != nil {
			logger.Warn("Page %d failed to extract: %v", page.Number, page.Err)
			record(domain.PageResult{
				Number: page.Number,
				Status: domain.PageFailed,
				Error:  fmt.Sprintf("extract page: %v", page.Err),
			})
			continue
		}

		g.Go(func() error {
			record(s.indexPage(gctx, documentID, page))
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].Number < results[b].Number
	})

	report := &domain.IngestReport{
		DocumentID: documentID,
		Name:       src.Name,
		Pages:      results,
		StartedAt:  startedAt,
		FinishedAt: s.now(),
	}

	logger.Info("Ingested %q: %d indexed, %d failed",
		src.Name, report.PagesIndexed(), report.PagesFailed())

	// The run itself succeeded even if the ledger write does not.
	if s.ledger != nil {
		if err := s.ledger.RecordRun(ctx, report); err != nil {
			logger.Warn("Recording ingest run %s: %v", documentID, err)
		}
	}

	return report, nil
}

// indexPage embeds one page and writes it to the index.
func (s *IngestService) indexPage(ctx context.Context, documentID string, page domain.ExtractedPage) domain.PageResult {
	vector, err := s.embeddingService.Embed(ctx, page.Body)
	if err != nil {
		return domain.PageResult{
			Number: page.Number,
			Status: domain.PageFailed,
			Error:  fmt.Sprintf("embed page: %v", err),
		}
	}

	key := domain.RecordKey(documentID, page.Number)
	err = s.vectorIndex.Upsert(ctx, domain.IndexedRecord{
		Key:        key,
		DocumentID: documentID,
		PageNumber: page.Number,
		Body:       page.Body,
		Embedding:  vector,
	})
	if err != nil {
		return domain.PageResult{
			Number: page.Number,
			Status: domain.PageFailed,
			Error:  fmt.Sprintf("index page: %v", err),
		}
	}

	return domain.PageResult{
		Number:    page.Number,
		Status:    domain.PageIndexed,
		RecordKey: key,
	}
}

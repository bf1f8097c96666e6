package driving

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// IngestService is the ingestion boundary. Ingestion is best-effort:
// per-page failures are recorded in the report, not raised, and a
// non-nil report may accompany a nil error even when some pages failed.
type IngestService interface {
	// IngestDocument indexes every page of the source document under a
	// freshly minted document ID and returns the per-page report.
	IngestDocument(ctx context.Context, src *domain.SourceDocument) (*domain.IngestReport, error)

	// IngestFile reads the file at path and ingests it, inferring the
	// MIME type from the extension.
	IngestFile(ctx context.Context, path string) (*domain.IngestReport, error)
}

package driven

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// IngestLedger durably records ingestion runs and their per-page
// outcomes. Partial ingestion is acceptable; the ledger is what makes it
// observable after the fact.
type IngestLedger interface {
	// RecordRun persists a completed report, pages included.
	RecordRun(ctx context.Context, report *domain.IngestReport) error

	// GetRun returns the report for a document ID, or domain.ErrNotFound.
	GetRun(ctx context.Context, documentID string) (*domain.IngestReport, error)

	// ListRuns returns the most recent runs, newest first, without their
	// page detail.
	ListRuns(ctx context.Context, limit int) ([]domain.IngestReport, error)

	// Close releases resources.
	Close() error
}

package domain

import "time"

// PageStatus is the outcome of indexing one page.
type PageStatus string

// Page outcomes.
const (
	PageIndexed PageStatus = "indexed"
	PageFailed  PageStatus = "failed"
)

// PageResult is the per-page entry of an ingestion report.
type PageResult struct {
	// Number is the 1-based page number.
	Number int

	// Status records whether the page reached the index.
	Status PageStatus

	// RecordKey is the composite index key, set when indexed.
	RecordKey string

	// Error describes the failure for failed pages.
	Error string
}

// IngestReport summarises one ingestion run. Ingestion is best-effort:
// individual page failures are recorded here rather than aborting the
// run, and Pages is always ordered by page number regardless of the
// order workers completed in.
type IngestReport struct {
	// DocumentID is the ID minted for this run.
	DocumentID string

	// Name is the source document's file name.
	Name string

	// Pages holds one entry per extracted page, in page order.
	Pages []PageResult

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// PagesIndexed counts the pages that reached the index.
func (r *IngestReport) PagesIndexed() int {
	n := 0
	for _, p := range r.Pages {
		if p.Status == PageIndexed {
			n++
		}
	}
	return n
}

// PagesFailed counts the pages that did not reach the index.
func (r *IngestReport) PagesFailed() int {
	return len(r.Pages) - r.PagesIndexed()
}

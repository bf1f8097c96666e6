package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceDocument is a raw document handed to the ingestion pipeline.
// Content holds the original bytes; extraction turns them into Pages.
type SourceDocument struct {
	// Name is the original file name, used for reporting only.
	Name string

	// MIMEType selects the extractor (e.g. "application/pdf").
	MIMEType string

	// Content is the raw document bytes.
	Content []byte
}

// Page is one extracted page of a source document.
// Numbering is 1-based and contiguous; a page without extractable text
// still exists with an empty Body so numbering matches the source.
type Page struct {
	Number int
	Body   string
}

// ExtractedPage is one element of an extraction stream. A per-page parse
// failure sets Err and extraction continues with the next page.
type ExtractedPage struct {
	Number int
	Body   string
	Err    error
}

// IndexedRecord is the unit persisted in the vector index.
type IndexedRecord struct {
	// Key uniquely identifies the record: "{documentID}_{pageNumber}".
	Key string

	// DocumentID groups all pages of one ingestion run.
	DocumentID string

	// PageNumber is the 1-based page position within the document.
	PageNumber int

	// Body is the extracted page text, possibly empty.
	Body string

	// Embedding is the page vector. Its length must equal the index's
	// declared dimension; it is immutable after creation.
	Embedding []float32
}

// RecordKey builds the composite index key for a document page.
// The composite form keeps pages of distinct ingestion runs from
// colliding and allows page-level re-indexing later.
func RecordKey(documentID string, pageNumber int) string {
	return fmt.Sprintf("%s_%d", documentID, pageNumber)
}

// NewDocumentID mints a unique document identifier for one ingestion run.
// The timestamp keeps IDs roughly sortable by ingestion time; the UUID
// suffix rules out collisions between runs in the same second.
func NewDocumentID(now time.Time) string {
	return fmt.Sprintf("doc_%d_%s", now.Unix(), uuid.New().String())
}

package driven

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// PageExtractor turns a source document into an ordered stream of
// page-level text units.
//
// The stream is 1-based, contiguous and finite: a page with no
// extractable text yields an entry with an empty body (never a gap, so
// numbering matches the source's physical pagination), and a page that
// fails to parse yields an entry with Err set while extraction continues
// with the following pages. Each Extract call produces a fresh stream,
// so extraction is restartable.
type PageExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract begins extraction and returns the page stream. The channel
	// is closed once the final page has been sent or ctx is cancelled.
	// Errors opening the document itself are returned directly.
	Extract(ctx context.Context, src *domain.SourceDocument) (<-chan domain.ExtractedPage, error)
}

// Package plaintext provides a page extractor for plain-text documents.
package plaintext

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor treats text content as a sequence of pages separated by
// form-feed characters (the pagination convention of pdftotext and
// friends). Content without form feeds is a single page.
type Extractor struct{}

// New creates a new plain-text page extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Extract streams the document's pages in order, 1-based. Empty pages
// between form feeds are kept so numbering matches the source.
func (e *Extractor) Extract(ctx context.Context, src *domain.SourceDocument) (<-chan domain.ExtractedPage, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	bodies := strings.Split(string(src.Content), "\f")

	pages := make(chan domain.ExtractedPage)
	go func() {
		defer close(pages)
		for i, body := range bodies {
			select {
			case pages <- domain.ExtractedPage{Number: i + 1, Body: body}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return pages, nil
}

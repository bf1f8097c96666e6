// Package pdf provides a page extractor for PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor extracts text from PDF documents page by page.
type Extractor struct{}

// New creates a new PDF page extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Extract streams the document's pages in order, 1-based. A page whose
// content cannot be parsed is sent with Err set and extraction moves on;
// a page with no extractable text is sent with an empty body so page
// numbering stays contiguous with the source.
func (e *Extractor) Extract(ctx context.Context, src *domain.SourceDocument) (<-chan domain.ExtractedPage, error) {
	if src == nil || len(src.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}

	reader, err := pdf.NewReader(bytes.NewReader(src.Content), int64(len(src.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrExtraction, err)
	}

	pages := make(chan domain.ExtractedPage)
	go func() {
		defer close(pages)
		total := reader.NumPage()
		for number := 1; number <= total; number++ {
			body, pageErr := extractPage(reader, number)
			out := domain.ExtractedPage{Number: number, Body: body}
			if pageErr != nil {
				out.Err = fmt.Errorf("%w: page %d: %v", domain.ErrExtraction, number, pageErr)
			}
			select {
			case pages <- out:
			case <-ctx.Done():
				return
			}
		}
	}()
	return pages, nil
}

// extractPage pulls the plain text of one page. The underlying library
// can panic on malformed content streams, so the recover turns that into
// a per-page error instead of tearing down the run.
func extractPage(reader *pdf.Reader, number int) (body string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse panic: %v", r)
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return text, nil
}

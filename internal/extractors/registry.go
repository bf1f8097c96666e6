// Package extractors provides page-level text extraction and the
// registry that selects an extractor by MIME type.
package extractors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Registry selects a PageExtractor by MIME type.
type Registry struct {
	byMIME map[string]driven.PageExtractor
}

// NewRegistry creates a registry over the given extractors. Later
// extractors win when two claim the same MIME type.
func NewRegistry(extractors ...driven.PageExtractor) *Registry {
	r := &Registry{byMIME: make(map[string]driven.PageExtractor)}
	for _, e := range extractors {
		for _, mt := range e.SupportedMIMETypes() {
			r.byMIME[strings.ToLower(mt)] = e
		}
	}
	return r
}

// ForMIMEType returns the extractor handling the given MIME type.
func (r *Registry) ForMIMEType(mimeType string) (driven.PageExtractor, error) {
	e, ok := r.byMIME[strings.ToLower(mimeType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}
	return e, nil
}

// MIMETypeForPath infers a MIME type from a file extension.
func MIMETypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".txt", ".text":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	default:
		return ""
	}
}

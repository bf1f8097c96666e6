package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.PageExtractor = (*Extractor)(nil)
}

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"application/pdf"}, e.SupportedMIMETypes())
}

func TestExtract_NilDocument(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_EmptyContent(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), &domain.SourceDocument{Name: "x.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_NotAPDF(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), &domain.SourceDocument{
		Name:     "fake.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("this is not a pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

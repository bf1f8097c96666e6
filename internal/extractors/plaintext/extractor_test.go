package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

func collect(t *testing.T, ch <-chan domain.ExtractedPage) []domain.ExtractedPage {
	t.Helper()
	var out []domain.ExtractedPage
	for p := range ch {
		out = append(out, p)
	}
	return out
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.PageExtractor = (*Extractor)(nil)
}

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Contains(t, e.SupportedMIMETypes(), "text/plain")
	assert.Contains(t, e.SupportedMIMETypes(), "text/markdown")
}

func TestExtract_SinglePage(t *testing.T) {
	e := New()
	ch, err := e.Extract(context.Background(), &domain.SourceDocument{
		Name:     "note.txt",
		MIMEType: "text/plain",
		Content:  []byte("Alice works in HR."),
	})
	require.NoError(t, err)

	pages := collect(t, ch)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "Alice works in HR.", pages[0].Body)
	assert.NoError(t, pages[0].Err)
}

func TestExtract_FormFeedPagination(t *testing.T) {
	e := New()
	ch, err := e.Extract(context.Background(), &domain.SourceDocument{
		Content: []byte("page one\fpage two\fpage three"),
	})
	require.NoError(t, err)

	pages := collect(t, ch)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number, "numbering must be contiguous and 1-based")
	}
	assert.Equal(t, "page two", pages[1].Body)
}

func TestExtract_EmptyPageKept(t *testing.T) {
	e := New()
	ch, err := e.Extract(context.Background(), &domain.SourceDocument{
		Content: []byte("first\f\fthird"),
	})
	require.NoError(t, err)

	pages := collect(t, ch)
	require.Len(t, pages, 3)
	assert.Equal(t, "", pages[1].Body, "blank page must still produce an entry")
	assert.Equal(t, 3, pages[2].Number)
}

func TestExtract_NilDocument(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_Restartable(t *testing.T) {
	e := New()
	src := &domain.SourceDocument{Content: []byte("a\fb")}

	for i := 0; i < 2; i++ {
		ch, err := e.Extract(context.Background(), src)
		require.NoError(t, err)
		pages := collect(t, ch)
		require.Len(t, pages, 2)
		assert.Equal(t, "a", pages[0].Body)
	}
}

func TestExtract_ContextCancelled(t *testing.T) {
	e := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := e.Extract(ctx, &domain.SourceDocument{Content: []byte("a\fb\fc")})
	require.NoError(t, err)

	<-ch
	cancel()
	// The stream must terminate rather than block forever.
	for range ch { //nolint:revive // draining
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievedContext_Text_PreservesOrder(t *testing.T) {
	ctx := &RetrievedContext{Passages: []RetrievedPassage{
		{Key: "d_2", Body: "second ranked", Similarity: 0.9},
		{Key: "d_1", Body: "first page body", Similarity: 0.8},
		{Key: "d_3", Body: "third", Similarity: 0.7},
	}}

	assert.Equal(t, "second ranked\n\nfirst page body\n\nthird", ctx.Text())
}

func TestRetrievedContext_Empty(t *testing.T) {
	var nilCtx *RetrievedContext
	assert.True(t, nilCtx.Empty())
	assert.Equal(t, "", nilCtx.Text())

	empty := &RetrievedContext{}
	assert.True(t, empty.Empty())
	assert.Equal(t, "", empty.Text())

	one := &RetrievedContext{Passages: []RetrievedPassage{{Body: "Alice works in HR."}}}
	assert.False(t, one.Empty())
	assert.Equal(t, "Alice works in HR.", one.Text())
}

func TestRetrievedContext_EmptyBodiesKept(t *testing.T) {
	// Pages indexed with empty bodies still occupy a slot in the blob.
	ctx := &RetrievedContext{Passages: []RetrievedPassage{
		{Body: "text"},
		{Body: ""},
		{Body: "more"},
	}}
	assert.Equal(t, "text\n\n\n\nmore", ctx.Text())
}

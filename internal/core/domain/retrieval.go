package domain

import "strings"

// RetrievedPassage is one passage returned by similarity search, in
// rank order.
type RetrievedPassage struct {
	// Key is the composite record key of the hit.
	Key string

	// DocumentID and PageNumber identify the source page.
	DocumentID string
	PageNumber int

	// Body is the stored page text.
	Body string

	// Similarity is the search score, higher is more similar.
	Similarity float64
}

// RetrievedContext is the assembled grounding context for one query.
type RetrievedContext struct {
	// Passages holds the retained hits in the order search returned them.
	Passages []RetrievedPassage
}

// Empty reports whether retrieval produced no passages. Generation
// proceeds ungrounded in that case; it is not an error.
func (c *RetrievedContext) Empty() bool {
	return c == nil || len(c.Passages) == 0
}

// Text concatenates the passage bodies, in rank order, separated by a
// blank line. This is the context blob embedded in the RAG prompt.
func (c *RetrievedContext) Text() string {
	if c.Empty() {
		return ""
	}
	bodies := make([]string, len(c.Passages))
	for i, p := range c.Passages {
		bodies[i] = p.Body
	}
	return strings.Join(bodies, "\n\n")
}

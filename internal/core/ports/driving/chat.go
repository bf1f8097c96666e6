package driving

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// ChatService is the conversation boundary. One service owns one
// session; a failed turn leaves the session consistent (the user's own
// question is retained, no assistant message is appended) and never
// crashes the process.
type ChatService interface {
	// SubmitQuery runs one conversational turn and returns the
	// assistant's message. With RAG enabled the query is grounded on
	// retrieved passages; with RAG disabled the index is never touched.
	SubmitQuery(ctx context.Context, query string) (domain.Message, error)

	// UpdateParams validates and applies new session tunables. Applying
	// them clears the message history and question counter.
	UpdateParams(params domain.SessionParams) error

	// Params returns the current session tunables.
	Params() domain.SessionParams

	// History returns the conversation so far, in order.
	History() []domain.Message

	// Reset clears the conversation, keeping the tunables.
	Reset()
}

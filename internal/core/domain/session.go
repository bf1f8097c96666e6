package domain

import (
	"fmt"
	"sync"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionParams are the per-session tunables. Changing them invalidates
// the conversational context, so applying new params clears history.
type SessionParams struct {
	// MaxTokens caps the generated response length.
	MaxTokens int

	// Temperature controls generation randomness (0.0 - 1.0).
	Temperature float64

	// TopK is the number of candidate records pulled from the index.
	TopK int

	// TopN is reserved for a reranking stage; stored but not consumed.
	TopN int

	// SimilarityThreshold is the minimum similarity for a retrieved
	// passage. Only enforced when threshold enforcement is enabled.
	SimilarityThreshold float64

	// RAGEnabled toggles retrieval. When false, queries go straight to
	// the generation service and the index is never touched.
	RAGEnabled bool
}

// DefaultSessionParams returns the session defaults used at session start.
func DefaultSessionParams() SessionParams {
	return SessionParams{
		MaxTokens:           1024,
		Temperature:         0.0,
		TopK:                3,
		TopN:                3,
		SimilarityThreshold: 0.5,
		RAGEnabled:          true,
	}
}

// Validate checks parameter ranges.
func (p SessionParams) Validate() error {
	if p.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidInput)
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("%w: temperature must be in [0, 1]", ErrInvalidInput)
	}
	if p.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1", ErrInvalidInput)
	}
	if p.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1", ErrInvalidInput)
	}
	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in [0, 1]", ErrInvalidInput)
	}
	return nil
}

// Session holds the per-session tunables and message history.
// A session is owned by exactly one conversation; the mutex only guards
// against racing driving adapters (e.g. TUI and MCP sharing a process).
type Session struct {
	mu            sync.RWMutex
	params        SessionParams
	messages      []Message
	questionCount int
}

// NewSession creates a session with the given parameters.
func NewSession(params SessionParams) *Session {
	return &Session{params: params}
}

// Params returns a copy of the current tunables.
func (s *Session) Params() SessionParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Apply replaces the tunables and clears the conversational context:
// parameter changes invalidate prior history, so messages and the
// question counter are reset.
func (s *Session) Apply(params SessionParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = params
	s.messages = nil
	s.questionCount = 0
	return nil
}

// Reset clears the message history and question counter, keeping params.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.questionCount = 0
}

// AppendUser records a user turn and increments the question counter,
// returning the question's ordinal (1-based).
func (s *Session) AppendUser(content string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: RoleUser, Content: content})
	s.questionCount++
	return s.questionCount
}

// AppendAssistant records an assistant turn.
func (s *Session) AppendAssistant(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: content})
}

// Messages returns a copy of the conversation history in order.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// QuestionCount returns the number of user questions asked since the
// last reset or parameter change.
func (s *Session) QuestionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questionCount
}

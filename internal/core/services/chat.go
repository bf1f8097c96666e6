package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
	"github.com/meridian-labs/grounded/internal/core/ports/driving"
	"github.com/meridian-labs/grounded/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ragPromptFormat grounds the query on retrieved document text.
const ragPromptFormat = "Based on the following documents, provide a detailed response to the query: '%s'\n\nDocuments:\n%s"

// ChatService runs conversational turns over one session, grounding
// queries on retrieved passages when RAG is enabled.
type ChatService struct {
	session           *domain.Session
	retrieval         *RetrievalService
	generationService driven.GenerationService
}

// NewChatService creates a chat service with a fresh session using the
// given parameters.
func NewChatService(
	params domain.SessionParams,
	retrieval *RetrievalService,
	generationService driven.GenerationService,
) (*ChatService, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ChatService{
		session:           domain.NewSession(params),
		retrieval:         retrieval,
		generationService: generationService,
	}, nil
}

// SubmitQuery runs one conversational turn. A failed turn retains the
// user's question in history but appends no assistant message.
func (s *ChatService) SubmitQuery(ctx context.Context, query string) (domain.Message, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Message{}, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}

	params := s.session.Params()
	ordinal := s.session.AppendUser(query)

	logger.Section("Chat Turn")
	logger.Debug("Question %d: %q (rag=%t)", ordinal, query, params.RAGEnabled)

	prompt, err := s.buildPrompt(ctx, query, params)
	if err != nil {
		return domain.Message{}, err
	}

	result, err := s.generationService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("generate response: %w", err)
	}

	answer := result.Text()
	s.session.AppendAssistant(answer)
	return domain.Message{Role: domain.RoleAssistant, Content: answer}, nil
}

// buildPrompt assembles the generation prompt for one turn. With RAG
// disabled the query passes through untouched and the index is never
// consulted.
func (s *ChatService) buildPrompt(ctx context.Context, query string, params domain.SessionParams) (string, error) {
	if !params.RAGEnabled {
		logger.Debug("RAG disabled, querying model directly")
		return query, nil
	}

	retrieved, err := s.retrieval.Retrieve(ctx, query, params.TopK, params.SimilarityThreshold)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	if retrieved.Empty() {
		logger.Debug("Retrieval returned no passages, grounding on empty context")
	}

	return fmt.Sprintf(ragPromptFormat, query, retrieved.Text()), nil
}

// UpdateParams validates and applies new session tunables, clearing the
// message history and question counter.
func (s *ChatService) UpdateParams(params domain.SessionParams) error {
	return s.session.Apply(params)
}

// Params returns the current session tunables.
func (s *ChatService) Params() domain.SessionParams {
	return s.session.Params()
}

// History returns the conversation so far, in order.
func (s *ChatService) History() []domain.Message {
	return s.session.Messages()
}

// QuestionCount returns the number of questions asked since the last
// reset or parameter change.
func (s *ChatService) QuestionCount() int {
	return s.session.QuestionCount()
}

// Reset clears the conversation, keeping the tunables.
func (s *ChatService) Reset() {
	s.session.Reset()
}

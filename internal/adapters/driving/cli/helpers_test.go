package cli

import (
	"context"
	"time"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driving"
)

// Compile-time interface checks for the stubs.
var (
	_ driving.ChatService   = (*stubChatService)(nil)
	_ driving.IngestService = (*stubIngestService)(nil)
)

type stubChatService struct {
	params    domain.SessionParams
	answer    string
	err       error
	lastQuery string
	history   []domain.Message
}

func newStubChatService() *stubChatService {
	return &stubChatService{
		params: domain.DefaultSessionParams(),
		answer: "stub answer",
	}
}

func (s *stubChatService) SubmitQuery(_ context.Context, query string) (domain.Message, error) {
	s.lastQuery = query
	if s.err != nil {
		return domain.Message{}, s.err
	}
	msg := domain.Message{Role: domain.RoleAssistant, Content: s.answer}
	s.history = append(s.history,
		domain.Message{Role: domain.RoleUser, Content: query}, msg)
	return msg, nil
}

func (s *stubChatService) UpdateParams(params domain.SessionParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.params = params
	s.history = nil
	return nil
}

func (s *stubChatService) Params() domain.SessionParams { return s.params }
func (s *stubChatService) History() []domain.Message    { return s.history }
func (s *stubChatService) Reset()                       { s.history = nil }

type stubIngestService struct {
	report *domain.IngestReport
	err    error
	paths  []string
}

func newStubIngestService() *stubIngestService {
	return &stubIngestService{
		report: &domain.IngestReport{
			DocumentID: "doc_1700000000_abcd",
			Name:       "stub.pdf",
			Pages: []domain.PageResult{
				{Number: 1, Status: domain.PageIndexed, RecordKey: "doc_1700000000_abcd_1"},
				{Number: 2, Status: domain.PageFailed, Error: "embed page: boom"},
			},
			StartedAt:  time.Unix(1700000000, 0).UTC(),
			FinishedAt: time.Unix(1700000001, 0).UTC(),
		},
	}
}

func (s *stubIngestService) IngestDocument(_ context.Context, src *domain.SourceDocument) (*domain.IngestReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubIngestService) IngestFile(_ context.Context, path string) (*domain.IngestReport, error) {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

// setupTestServices swaps the package services for stubs and returns a
// cleanup that restores the originals.
func setupTestServices() func() {
	oldChat := chatService
	oldIngest := ingestService
	chatService = newStubChatService()
	ingestService = newStubIngestService()
	return func() {
		chatService = oldChat
		ingestService = oldIngest
	}
}

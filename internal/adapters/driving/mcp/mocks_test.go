package mcp

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer    string
	params    domain.SessionParams
	lastQuery string
	err       error
}

func (m *mockChatService) SubmitQuery(_ context.Context, query string) (domain.Message, error) {
	m.lastQuery = query
	if m.err != nil {
		return domain.Message{}, m.err
	}
	return domain.Message{Role: domain.RoleAssistant, Content: m.answer}, nil
}

func (m *mockChatService) UpdateParams(params domain.SessionParams) error {
	m.params = params
	return nil
}

func (m *mockChatService) Params() domain.SessionParams {
	return m.params
}

func (m *mockChatService) History() []domain.Message {
	return nil
}

func (m *mockChatService) Reset() {}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report   *domain.IngestReport
	lastPath string
	err      error
}

func (m *mockIngestService) IngestDocument(_ context.Context, _ *domain.SourceDocument) (*domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*domain.IngestReport, error) {
	m.lastPath = path
	return m.report, m.err
}

// mockLedger is a mock implementation of driven.IngestLedger.
type mockLedger struct {
	runs []domain.IngestReport
	err  error
}

func (m *mockLedger) RecordRun(_ context.Context, report *domain.IngestReport) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, *report)
	return nil
}

func (m *mockLedger) GetRun(_ context.Context, documentID string) (*domain.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].DocumentID == documentID {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLedger) ListRuns(_ context.Context, _ int) ([]domain.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

func (m *mockLedger) Close() error { return nil }

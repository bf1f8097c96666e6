package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the assistant answer", func(t *testing.T) {
		mockChat := &mockChatService{
			answer: "Whales are mammals.",
			params: domain.DefaultSessionParams(),
		}

		server, err := NewServer(&Ports{Chat: mockChat})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Query: "tell me about whales"})

		require.NoError(t, err)
		assert.Equal(t, "Whales are mammals.", output.Answer)
		assert.True(t, output.RAGEnabled)
		assert.Equal(t, "tell me about whales", mockChat.lastQuery)
	})

	t.Run("returns error on chat failure", func(t *testing.T) {
		mockChat := &mockChatService{err: errors.New("generation failed")}

		server, err := NewServer(&Ports{Chat: mockChat})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "generation failed")
	})
}

func TestServer_handleIngestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the run summary", func(t *testing.T) {
		mockIngest := &mockIngestService{
			report: &domain.IngestReport{
				DocumentID: "doc_1_abc",
				Name:       "report.pdf",
				Pages: []domain.PageResult{
					{Number: 1, Status: domain.PageIndexed, RecordKey: "doc_1_abc_1"},
					{Number: 2, Status: domain.PageFailed, Error: "embed page: timeout"},
				},
			},
		}

		server, err := NewServer(&Ports{Chat: &mockChatService{}, Ingest: mockIngest})
		require.NoError(t, err)

		_, output, err := server.handleIngestFile(ctx, nil, IngestInput{Path: "/tmp/report.pdf"})

		require.NoError(t, err)
		assert.Equal(t, "doc_1_abc", output.DocumentID)
		assert.Equal(t, "report.pdf", output.Name)
		assert.Equal(t, 1, output.PagesIndexed)
		assert.Equal(t, 1, output.PagesFailed)
		assert.Equal(t, "/tmp/report.pdf", mockIngest.lastPath)
	})

	t.Run("returns error on ingest failure", func(t *testing.T) {
		mockIngest := &mockIngestService{err: domain.ErrUnsupportedType}

		server, err := NewServer(&Ports{Chat: &mockChatService{}, Ingest: mockIngest})
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestInput{Path: "/tmp/file.xyz"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})
}

func TestNewServerRequiresChatService(t *testing.T) {
	_, err := NewServer(&Ports{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingChatService)
}

package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

func TestExtractRunDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid run URI",
			uri:      "grounded://runs/doc_1700000000_abcd",
			expected: "doc_1700000000_abcd",
		},
		{
			name:     "invalid prefix",
			uri:      "file://runs/doc_1700000000_abcd",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractRunDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil ledger returns empty list", func(t *testing.T) {
		ports := &Ports{Chat: &mockChatService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://runs")
		result, err := server.handleRunsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns runs successfully", func(t *testing.T) {
		ledger := &mockLedger{
			runs: []domain.IngestReport{
				{
					DocumentID: "doc_1700000000_abcd",
					Name:       "report.pdf",
					StartedAt:  time.Unix(1700000000, 0).UTC(),
					FinishedAt: time.Unix(1700000002, 0).UTC(),
				},
			},
		}

		ports := &Ports{Chat: &mockChatService{}, Ledger: ledger}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://runs")
		result, err := server.handleRunsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc_1700000000_abcd")
		assert.Contains(t, result.Contents[0].Text, "report.pdf")
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		ledger := &mockLedger{err: errors.New("database error")}

		ports := &Ports{Chat: &mockChatService{}, Ledger: ledger}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://runs")
		_, err = server.handleRunsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing runs")
	})
}

func TestServer_handleRunReportResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil ledger returns not found", func(t *testing.T) {
		ports := &Ports{Chat: &mockChatService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://runs/doc_1")
		_, err = server.handleRunReportResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		ports := &Ports{Chat: &mockChatService{}, Ledger: &mockLedger{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://invalid/uri")
		_, err = server.handleRunReportResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns report with page detail", func(t *testing.T) {
		ledger := &mockLedger{
			runs: []domain.IngestReport{
				{
					DocumentID: "doc_1700000000_abcd",
					Name:       "report.pdf",
					Pages: []domain.PageResult{
						{Number: 1, Status: domain.PageIndexed, RecordKey: "doc_1700000000_abcd_1"},
						{Number: 2, Status: domain.PageFailed, Error: "embed page: boom"},
					},
				},
			},
		}

		ports := &Ports{Chat: &mockChatService{}, Ledger: ledger}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://runs/doc_1700000000_abcd")
		result, err := server.handleRunReportResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"pages_indexed": 1`)
		assert.Contains(t, result.Contents[0].Text, `"pages_failed": 1`)
		assert.Contains(t, result.Contents[0].Text, "doc_1700000000_abcd_1")
		assert.Contains(t, result.Contents[0].Text, "embed page: boom")
	})

	t.Run("unknown run returns not found", func(t *testing.T) {
		ports := &Ports{Chat: &mockChatService{}, Ledger: &mockLedger{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("grounded://runs/doc_missing")
		_, err = server.handleRunReportResource(ctx, req)

		require.Error(t, err)
	})
}

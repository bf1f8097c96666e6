package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for grounded resources.
const uriScheme = "grounded://"

// runListLimit caps the runs resource listing.
const runListLimit = 50

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing ingestion runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent ingestion runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for one run's per-page report.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{documentId}",
		Name:        "run-report",
		Description: "Per-page report of one ingestion run",
		MIMEType:    "application/json",
	}, s.handleRunReportResource)
}

// handleRunsResource returns the recent ingestion runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ledger == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	runs, err := s.ports.Ledger.ListRuns(ctx, runListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	type runInfo struct {
		DocumentID string `json:"document_id"`
		Name       string `json:"name"`
		StartedAt  string `json:"started_at"`
		FinishedAt string `json:"finished_at"`
	}

	infos := make([]runInfo, len(runs))
	for i, run := range runs {
		infos[i] = runInfo{
			DocumentID: run.DocumentID,
			Name:       run.Name,
			StartedAt:  run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			FinishedAt: run.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRunReportResource returns one run's per-page report.
func (s *Server) handleRunReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ledger == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID := extractRunDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Ledger.GetRun(ctx, docID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type pageInfo struct {
		Number    int    `json:"number"`
		Status    string `json:"status"`
		RecordKey string `json:"record_key,omitempty"`
		Error     string `json:"error,omitempty"`
	}
	type reportInfo struct {
		DocumentID   string     `json:"document_id"`
		Name         string     `json:"name"`
		PagesIndexed int        `json:"pages_indexed"`
		PagesFailed  int        `json:"pages_failed"`
		Pages        []pageInfo `json:"pages"`
	}

	info := reportInfo{
		DocumentID:   report.DocumentID,
		Name:         report.Name,
		PagesIndexed: report.PagesIndexed(),
		PagesFailed:  report.PagesFailed(),
		Pages:        make([]pageInfo, len(report.Pages)),
	}
	for i, page := range report.Pages {
		info.Pages[i] = pageInfo{
			Number:    page.Number,
			Status:    string(page.Status),
			RecordKey: page.RecordKey,
			Error:     page.Error,
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunDocumentID extracts the document ID from a URI like
// grounded://runs/{documentId}.
func extractRunDocumentID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}

package mcp

import (
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
	"github.com/meridian-labs/grounded/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers queries over the indexed corpus.
	Chat driving.ChatService

	// Ingest feeds documents into the index.
	Ingest driving.IngestService

	// Ledger backs the runs resources.
	Ledger driven.IngestLedger
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Ingest and Ledger are optional; without them only the ask tool
	// and an empty runs listing are served.
	return nil
}

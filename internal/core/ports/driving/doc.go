// Package driving provides interfaces for entry-point adapters
// (primary/inbound ports): the conversation boundary and the ingestion
// boundary consumed by the CLI, TUI, MCP and watch adapters.
package driving

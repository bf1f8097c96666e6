// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the embedding and generation services, the
// vector index, page extraction, the ingest ledger and configuration.
package driven

// Package domain contains the core business entities for the grounded
// pipeline: documents and their pages, indexed records, the conversation
// session, generation results and the ingestion report.
//
// The domain layer has no dependencies on adapters or external services.
package domain

package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles the document's
	// MIME type.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrExtraction indicates a page failed to parse. Recoverable: the
	// pipeline skips the page body and continues with the next page.
	ErrExtraction = errors.New("page extraction failed")

	// ErrEmbeddingService indicates the remote embedding call failed,
	// timed out, or returned an unusable result. Fatal for the single
	// page or query it occurred on, recoverable for the run.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGenerationService indicates the remote generation call failed.
	// Surfaced as a per-turn failure; session state remains valid.
	ErrGenerationService = errors.New("generation service error")

	// ErrDimensionMismatch indicates an embedding whose length differs
	// from the index's declared dimension. Rejected before write, never
	// truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrSchemaMismatch indicates the index already exists with an
	// incompatible dimension. Fatal: requires operator intervention and
	// must never be auto-migrated.
	ErrSchemaMismatch = errors.New("index schema mismatch")
)

// SchemaMismatchError reports an existing index whose declared dimension
// conflicts with the requested one.
type SchemaMismatchError struct {
	Index string
	Want  int
	Got   int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("index %q has dimension %d, want %d", e.Index, e.Got, e.Want)
}

// Unwrap makes the error match ErrSchemaMismatch via errors.Is.
func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

package domain

import "fmt"

// Sentinel texts returned instead of raising when a generation response
// carries no usable candidates. These are user-visible strings, not errors.
const (
	// NoResponseSentinel is returned when the service answered with an
	// empty candidate list.
	NoResponseSentinel = "No response generated."

	// NoGenerationsSentinel is returned when the response shape carried
	// no candidate list at all.
	NoGenerationsSentinel = "No 'generations' attribute in response."
)

type generationKind int

const (
	generationEmpty generationKind = iota
	generationCandidates
	generationMissing
	generationMalformed
)

// GenerationResult is the normalised outcome of a generation call.
// The generation service's wire response is polymorphic (candidate list,
// text-only, or absent generations); adapters normalise it into this
// variant exactly once, at the client boundary. Extracting text never
// panics and never propagates a raw decoding failure to the caller.
type GenerationResult struct {
	kind        generationKind
	candidates  []string
	description string
}

// EmptyGeneration is a response that carried an empty candidate list.
func EmptyGeneration() GenerationResult {
	return GenerationResult{kind: generationEmpty}
}

// Candidates wraps the ranked candidate texts of a response. An empty
// slice degrades to the empty variant.
func Candidates(texts []string) GenerationResult {
	if len(texts) == 0 {
		return EmptyGeneration()
	}
	return GenerationResult{kind: generationCandidates, candidates: texts}
}

// MissingGenerations is a response whose shape carried no candidate list.
func MissingGenerations() GenerationResult {
	return GenerationResult{kind: generationMissing}
}

// MalformedGeneration is a response that could not be decoded at all;
// description is embedded in the sentinel text shown to the user.
func MalformedGeneration(description string) GenerationResult {
	return GenerationResult{kind: generationMalformed, description: description}
}

// HasCandidates reports whether at least one candidate text is present.
func (r GenerationResult) HasCandidates() bool {
	return r.kind == generationCandidates
}

// Text returns the first candidate's text, or the appropriate sentinel
// for degenerate responses.
func (r GenerationResult) Text() string {
	switch r.kind {
	case generationCandidates:
		return r.candidates[0]
	case generationEmpty:
		return NoResponseSentinel
	case generationMissing:
		return NoGenerationsSentinel
	default:
		return fmt.Sprintf("Error extracting response: %s", r.description)
	}
}

package driven

import (
	"context"

	"github.com/meridian-labs/grounded/internal/core/domain"
)

// GenerationService produces natural-language text from a prompt.
//
// Transport failures (connection errors, timeouts, non-2xx statuses) are
// returned as errors. A response that arrives but carries no usable
// candidates is data, not an error: adapters normalise every response
// shape into domain.GenerationResult exactly once, at this boundary, so
// call sites never inspect raw wire shapes.
type GenerationService interface {
	// Generate invokes the model with a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (domain.GenerationResult, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures one generation call.
type GenerateOptions struct {
	// MaxTokens caps the generated response length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

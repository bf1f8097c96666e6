package driven

import "context"

// EmbeddingService generates fixed-dimension vector embeddings from text.
//
// Implementations must fail with an error — never silently return zero
// vectors — when the remote service errors, times out, or returns a
// vector of unexpected dimension. Retries are the caller's concern, not
// this layer's.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, ...)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input in input order. Semantically equivalent to calling Embed per
	// text, but allows the adapter to batch the remote call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size declared by
	// configuration. Every returned vector has exactly this length, and
	// it must match the vector index schema.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

package driven

import "context"

// EmbeddingService generates vector embeddings for text.
// Implementations may call a remote API or compute vectors in process;
// callers treat latency and failure the same either way.
type EmbeddingService interface {
	// Embed returns one vector per input text, in input order.
	// Every vector has Dimensions() elements.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping checks the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

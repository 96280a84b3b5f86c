package driven

import "context"

// VectorIndex stores embeddings by id and answers similarity queries.
// All implementations score by cosine similarity.
type VectorIndex interface {
	// Reset removes every entry. Idempotent.
	Reset(ctx context.Context) error

	// Add inserts an entry. Returns domain.ErrDuplicateID if id is already
	// stored and domain.ErrDimensionMismatch if the vector size differs from
	// the stored entries.
	Add(ctx context.Context, id string, embedding []float32, payload string) error

	// Delete removes an entry. Returns domain.ErrNotFound if id is absent.
	Delete(ctx context.Context, id string) error

	// Query returns up to topK entries by descending score, ties broken by
	// insertion order. An empty index yields an empty slice, not an error.
	Query(ctx context.Context, query []float32, topK int) ([]VectorHit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched entry.
	ID string

	// Payload is the text stored with the entry.
	Payload string

	// Score is the cosine similarity (-1 to 1).
	Score float64
}

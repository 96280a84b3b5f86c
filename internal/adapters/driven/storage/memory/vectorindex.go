package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

type entry struct {
	seq       int64
	id        string
	embedding []float32
	payload   string
}

// VectorIndex is an in-memory brute-force cosine index.
// Queries take a read lock; Add, Delete and Reset take the write lock.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []entry
	ids     map[string]struct{}
	dims    int
	nextSeq int64
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		ids: make(map[string]struct{}),
	}
}

// Reset removes every entry.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = nil
	v.ids = make(map[string]struct{})
	v.dims = 0
	return nil
}

// Add inserts an entry.
func (v *VectorIndex) Add(ctx context.Context, id string, embedding []float32, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" || len(embedding) == 0 {
		return fmt.Errorf("add vector: %w", domain.ErrInvalidInput)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.ids[id]; ok {
		return fmt.Errorf("add vector %q: %w", id, domain.ErrDuplicateID)
	}
	if v.dims != 0 && len(embedding) != v.dims {
		return fmt.Errorf("add vector %q: got %d, want %d: %w",
			id, len(embedding), v.dims, domain.ErrDimensionMismatch)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	v.entries = append(v.entries, entry{seq: v.nextSeq, id: id, embedding: vec, payload: payload})
	v.ids[id] = struct{}{}
	v.dims = len(vec)
	v.nextSeq++
	return nil
}

// Delete removes an entry.
func (v *VectorIndex) Delete(_ context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.ids[id]; !ok {
		return domain.ErrNotFound
	}
	for i := range v.entries {
		if v.entries[i].id == id {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			break
		}
	}
	delete(v.ids, id)
	if len(v.entries) == 0 {
		v.dims = 0
	}
	return nil
}

// Query returns up to topK entries by descending cosine similarity.
func (v *VectorIndex) Query(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK < 1 {
		return nil, fmt.Errorf("query top_k %d: %w", topK, domain.ErrInvalidInput)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != v.dims {
		return nil, fmt.Errorf("query: got %d, want %d: %w", len(query), v.dims, domain.ErrDimensionMismatch)
	}

	scored := make([]similarity.Scored, len(v.entries))
	for i := range v.entries {
		scored[i] = similarity.Scored{
			Seq:   v.entries[i].seq,
			Index: i,
			Score: similarity.Cosine(query, v.entries[i].embedding),
		}
	}

	ranked := similarity.Rank(scored, topK)
	hits := make([]driven.VectorHit, len(ranked))
	for i, r := range ranked {
		e := v.entries[r.Index]
		hits[i] = driven.VectorHit{ID: e.id, Payload: e.payload, Score: r.Score}
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

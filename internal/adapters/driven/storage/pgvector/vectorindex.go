// Package pgvector provides a PostgreSQL implementation of driven.VectorIndex
// using the pgvector extension. Scores are 1 - cosine distance.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS ragchat_vectors (
    seq       BIGSERIAL PRIMARY KEY,
    id        TEXT      NOT NULL UNIQUE,
    payload   TEXT      NOT NULL,
    dims      INTEGER   NOT NULL,
    embedding vector    NOT NULL
);
`

// VectorIndex stores embeddings in a pgvector table.
type VectorIndex struct {
	mu   sync.RWMutex
	pool *pgxpool.Pool
}

// NewVectorIndex connects to dsn, verifies the connection and creates the
// table if needed.
func NewVectorIndex(ctx context.Context, dsn string) (*VectorIndex, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pgvector: dsn is required: %w", domain.ErrInvalidInput)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgvector: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector: create schema: %w", err)
	}

	return &VectorIndex{pool: pool}, nil
}

// Reset removes every entry.
func (v *VectorIndex) Reset(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.pool.Exec(ctx, "TRUNCATE ragchat_vectors"); err != nil {
		return fmt.Errorf("pgvector: reset: %w", err)
	}
	return nil
}

// Add inserts an entry.
func (v *VectorIndex) Add(ctx context.Context, id string, embedding []float32, payload string) error {
	if id == "" || len(embedding) == 0 {
		return fmt.Errorf("add vector: %w", domain.ErrInvalidInput)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	var dims int
	err := v.pool.QueryRow(ctx, "SELECT dims FROM ragchat_vectors ORDER BY seq LIMIT 1").Scan(&dims)
	switch {
	case err == nil && dims != len(embedding):
		return fmt.Errorf("add vector %q: got %d, want %d: %w", id, len(embedding), dims, domain.ErrDimensionMismatch)
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("pgvector: read dimensions: %w", err)
	}

	tag, err := v.pool.Exec(ctx, `
		INSERT INTO ragchat_vectors (id, payload, dims, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, id, payload, len(embedding), pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("pgvector: insert %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("add vector %q: %w", id, domain.ErrDuplicateID)
	}
	return nil
}

// Delete removes an entry.
func (v *VectorIndex) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	tag, err := v.pool.Exec(ctx, "DELETE FROM ragchat_vectors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("pgvector: delete %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Query returns up to topK entries ordered by cosine distance, then insertion.
func (v *VectorIndex) Query(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if topK < 1 {
		return nil, fmt.Errorf("query top_k %d: %w", topK, domain.ErrInvalidInput)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	var dims int
	err := v.pool.QueryRow(ctx, "SELECT dims FROM ragchat_vectors ORDER BY seq LIMIT 1").Scan(&dims)
	if errors.Is(err, pgx.ErrNoRows) {
		return []driven.VectorHit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pgvector: read dimensions: %w", err)
	}
	if dims != len(query) {
		return nil, fmt.Errorf("query: got %d, want %d: %w", len(query), dims, domain.ErrDimensionMismatch)
	}

	rows, err := v.pool.Query(ctx, `
		SELECT id, payload, 1 - (embedding <=> $1) AS score
		FROM ragchat_vectors
		ORDER BY embedding <=> $1, seq
		LIMIT $2
	`, pgvector.NewVector(query), topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector: query: %w", err)
	}
	defer rows.Close()

	hits := make([]driven.VectorHit, 0, topK)
	for rows.Next() {
		var hit driven.VectorHit
		if err := rows.Scan(&hit.ID, &hit.Payload, &hit.Score); err != nil {
			return nil, fmt.Errorf("pgvector: scan: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector: rows: %w", err)
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var n int
	if err := v.pool.QueryRow(ctx, "SELECT COUNT(*) FROM ragchat_vectors").Scan(&n); err != nil {
		return 0, fmt.Errorf("pgvector: count: %w", err)
	}
	return n, nil
}

// Close releases the connection pool.
func (v *VectorIndex) Close() error {
	v.pool.Close()
	return nil
}

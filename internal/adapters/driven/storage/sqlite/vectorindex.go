package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// MemoryDSN keeps the database in memory.
const MemoryDSN = ":memory:"

// VectorIndex stores embeddings in a SQLite table.
type VectorIndex struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewVectorIndex opens (or creates) the database at dsn and runs migrations.
func NewVectorIndex(dsn string) (*VectorIndex, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	source := dsn
	if dsn != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		source = dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	v := &VectorIndex{db: db, path: dsn}
	if err := v.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return v, nil
}

// Path returns the database location.
func (v *VectorIndex) Path() string {
	return v.path
}

// Reset removes every entry.
func (v *VectorIndex) Reset(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.db.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
		return fmt.Errorf("resetting vectors: %w", err)
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

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM vectors WHERE id = ?", id).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("add vector %q: %w", id, domain.ErrDuplicateID)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking vector %q: %w", id, err)
	}

	var dims int
	err = tx.QueryRowContext(ctx, "SELECT dims FROM vectors ORDER BY seq LIMIT 1").Scan(&dims)
	switch {
	case err == nil && dims != len(embedding):
		return fmt.Errorf("add vector %q: got %d, want %d: %w", id, len(embedding), dims, domain.ErrDimensionMismatch)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("reading dimensions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO vectors (id, payload, dims, embedding) VALUES (?, ?, ?, ?)",
		id, payload, len(embedding), float32SliceToBytes(embedding))
	if err != nil {
		return fmt.Errorf("inserting vector %q: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing vector %q: %w", id, err)
	}
	return nil
}

// Delete removes an entry.
func (v *VectorIndex) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	res, err := v.db.ExecContext(ctx, "DELETE FROM vectors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting vector %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting vector %q: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Query returns up to topK entries by descending cosine similarity.
func (v *VectorIndex) Query(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if topK < 1 {
		return nil, fmt.Errorf("query top_k %d: %w", topK, domain.ErrInvalidInput)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	rows, err := v.db.QueryContext(ctx, "SELECT seq, id, payload, embedding FROM vectors ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	type row struct {
		id      string
		payload string
	}
	var (
		stored []row
		scored []similarity.Scored
	)
	for rows.Next() {
		var (
			seq  int64
			r    row
			blob []byte
		)
		if err := rows.Scan(&seq, &r.id, &r.payload, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(query) {
			return nil, fmt.Errorf("query: got %d, want %d: %w", len(query), len(embedding), domain.ErrDimensionMismatch)
		}
		scored = append(scored, similarity.Scored{
			Seq:   seq,
			Index: len(stored),
			Score: similarity.Cosine(query, embedding),
		})
		stored = append(stored, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	ranked := similarity.Rank(scored, topK)
	hits := make([]driven.VectorHit, len(ranked))
	for i, s := range ranked {
		hits[i] = driven.VectorHit{ID: stored[s.Index].id, Payload: stored[s.Index].payload, Score: s.Score}
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var n int
	if err := v.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

// migrate runs all pending migrations.
func (v *VectorIndex) migrate(fsys embed.FS) error {
	_, err := v.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := v.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vectors.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := v.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := v.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

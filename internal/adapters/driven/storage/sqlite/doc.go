// Package sqlite provides a SQLite-backed implementation of driven.VectorIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Embeddings are stored as little-endian
// float32 blobs and scored by cosine similarity in Go.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// An empty DSN or ":memory:" keeps the database in memory for the life of the
// process. Any other value is a file path.
//
// # Thread Safety
//
// All operations are thread-safe. Queries share a read lock; writes are exclusive.
package sqlite

// Package sqlite provides the SQLite-backed implementation of the corpus
// store driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database holds both
// corpora (notes and manual chunks), the machine/manual registry and the
// embedding vectors, stored as little-endian float32 blobs.
//
// Nearest-neighbour queries are answered by a brute-force cosine scan over
// the scope-filtered candidate rows. Corpora here are thousands of
// documents, not millions; a linear scan is faster than maintaining an
// approximate index and never returns a stale result.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and applied at open time.
//
// # Data Location
//
// By default, the database is stored at ~/.floorwise/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite

package driven

import (
	"context"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// CorpusStore persists both corpora (notes and manual chunks) together
// with their embedding vectors, and answers nearest-neighbour queries.
// Backed by SQLite; the core treats it as an external store reachable by
// simple CRUD calls and never manages its schema directly.
//
// Scope filtering is applied inside the store so that the semantic and
// lexical retrieval paths see exactly the same document set.
type CorpusStore interface {
	// InsertNote persists a note and its embedding as one atomic unit.
	InsertNote(ctx context.Context, note *domain.Note) error

	// ListNotes returns all notes, newest first.
	ListNotes(ctx context.Context) ([]domain.Note, error)

	// SaveMachine upserts a machine by name and returns its ID.
	SaveMachine(ctx context.Context, machine domain.Machine) (string, error)

	// GetMachineByName resolves a machine name to its record.
	GetMachineByName(ctx context.Context, name string) (*domain.Machine, error)

	// ListMachines returns all machines ordered by name.
	ListMachines(ctx context.Context) ([]domain.Machine, error)

	// SaveManual persists a manual record.
	SaveManual(ctx context.Context, manual *domain.Manual) error

	// GetManual retrieves a manual by ID.
	GetManual(ctx context.Context, id string) (*domain.Manual, error)

	// LinkMachineManual attaches a manual to a machine. Linking the same
	// pair twice is a no-op.
	LinkMachineManual(ctx context.Context, machineID, manualID string) error

	// InsertChunks persists manual chunks and their embeddings in a
	// single transaction: either all chunks commit or none do.
	InsertChunks(ctx context.Context, chunks []domain.ManualChunk) error

	// DeleteChunksByManual removes every chunk of a manual, clearing the
	// way for re-ingestion.
	DeleteChunksByManual(ctx context.Context, manualID string) error

	// NearestNotes returns up to k notes ranked by vector similarity,
	// scope-filtered. Notes without an embedding never appear.
	NearestNotes(ctx context.Context, vector []float32, k int, scope domain.Scope) ([]SemanticHit, error)

	// NearestChunks returns up to k manual chunks ranked by vector
	// similarity, scope-filtered.
	NearestChunks(ctx context.Context, vector []float32, k int, scope domain.Scope) ([]SemanticHit, error)

	// AllDocuments returns the full scope-filtered document set for
	// lexical indexing, in a stable order.
	AllDocuments(ctx context.Context, scope domain.Scope) ([]domain.CorpusDocument, error)

	// Close releases resources.
	Close() error
}

// SemanticHit is one nearest-neighbour result from the store.
type SemanticHit struct {
	// Document carries the matched document and its provenance.
	Document domain.CorpusDocument

	// Similarity is the cosine similarity in [0,1], derived from the
	// store's native distance metric.
	Similarity float64
}

package domain

import "time"

// EmbeddingDimensions is the fixed size of embedding vectors across the
// corpus. Every retrievable document carries exactly one vector of this
// dimensionality, produced once at write time and never mutated.
const EmbeddingDimensions = 384

// SourceType identifies which corpus a document belongs to.
type SourceType string

// Available source types.
const (
	// SourceNote is a free-text shop-floor note.
	SourceNote SourceType = "note"

	// SourceManual is a chunk of an equipment manual.
	SourceManual SourceType = "manual"
)

// ChunkType identifies how a manual chunk was produced.
type ChunkType string

// Available chunk types.
const (
	// ChunkText is a span of extracted page text.
	ChunkText ChunkType = "text"

	// ChunkImageDescription is a vision-generated description of an
	// embedded figure.
	ChunkImageDescription ChunkType = "image_description"
)

// Machine represents a piece of equipment on the shop floor.
// Machines act as retrieval scopes: notes and manuals attached to a
// machine are only visible to queries scoped to it.
type Machine struct {
	// ID is the unique identifier for the machine.
	ID string

	// Name is the unique human-readable name (e.g. "Haas VF-2").
	Name string

	// Description is optional free text about the machine.
	Description string
}

// Manual represents a source document (an equipment manual) whose content
// has been split into ManualChunks. A manual may be linked to any number
// of machines.
type Manual struct {
	// ID is the unique identifier for the manual.
	ID string

	// Title is the human-readable title.
	Title string

	// ManualType categorises the manual (e.g. "operator", "maintenance").
	ManualType string

	// SourceURL is the original location of the document, if known.
	SourceURL string

	// CreatedAt is when the manual record was created.
	CreatedAt time.Time
}

// Note is a free-text shop-floor note. Notes are immutable once created.
type Note struct {
	// ID is the unique identifier for the note.
	ID string

	// Text is the note content.
	Text string

	// MachineID scopes the note to a machine. Empty means the note is
	// global and visible under every scope.
	MachineID string

	// Embedding is the vector representation, produced at write time.
	Embedding []float32

	// CreatedAt is when the note was written.
	CreatedAt time.Time
}

// ManualChunk is the atomic retrieval unit for manual content: a bounded
// span of page text or a generated figure description. Chunks are immutable;
// re-ingesting a manual replaces all of its chunks wholesale.
type ManualChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// ManualID links to the parent Manual.
	ManualID string

	// Text is the chunk content.
	Text string

	// PageNumber is the 1-based source page.
	PageNumber int

	// SectionTitle is the detected section heading, if any.
	SectionTitle string

	// Type distinguishes text spans from figure descriptions.
	Type ChunkType

	// Embedding is the vector representation, produced at write time.
	Embedding []float32

	// CreatedAt is when the chunk was persisted.
	CreatedAt time.Time
}

// CorpusDocument is the store's uniform view of a retrievable document,
// used for lexical indexing and for carrying provenance into results.
type CorpusDocument struct {
	// Key uniquely identifies the document across both corpora
	// ("note:<id>" or "chunk:<id>").
	Key string

	// Source identifies the corpus the document came from.
	Source SourceType

	// Text is the full retrievable text.
	Text string

	// HasEmbedding reports whether the document carries a vector.
	// Documents without one are excluded from semantic search but still
	// surface through the lexical path.
	HasEmbedding bool

	// MachineID is the note's scope, when Source is SourceNote.
	MachineID string

	// CreatedAt is the note's creation time, when Source is SourceNote.
	CreatedAt time.Time

	// ManualID, ManualTitle, PageNumber, SectionTitle and ChunkType carry
	// manual provenance, when Source is SourceManual.
	ManualID     string
	ManualTitle  string
	PageNumber   int
	SectionTitle string
	ChunkType    ChunkType
}

// NoteKey returns the corpus-wide document key for a note ID.
func NoteKey(id string) string { return "note:" + id }

// ChunkKey returns the corpus-wide document key for a chunk ID.
func ChunkKey(id string) string { return "chunk:" + id }

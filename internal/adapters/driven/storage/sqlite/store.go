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

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/floorwise/floorwise-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed corpus store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.CorpusStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.floorwise/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".floorwise", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for better concurrency between readers and the ingester.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Machines and Manuals ====================

// SaveMachine upserts a machine by name and returns its ID. An empty
// incoming description never clobbers an existing one.
func (s *Store) SaveMachine(ctx context.Context, machine domain.Machine) (string, error) {
	if machine.ID == "" {
		machine.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO machines (id, name, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = CASE
				WHEN excluded.description <> '' THEN excluded.description
				ELSE machines.description
			END
	`, machine.ID, machine.Name, machine.Description)
	if err != nil {
		return "", fmt.Errorf("saving machine: %w", err)
	}

	var id string
	row := s.db.QueryRowContext(ctx, "SELECT id FROM machines WHERE name = ?", machine.Name)
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("resolving machine id: %w", err)
	}
	return id, nil
}

// GetMachineByName resolves a machine name to its record.
func (s *Store) GetMachineByName(ctx context.Context, name string) (*domain.Machine, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description FROM machines WHERE name = ?
	`, name)

	var machine domain.Machine
	if err := row.Scan(&machine.ID, &machine.Name, &machine.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning machine: %w", err)
	}
	return &machine, nil
}

// ListMachines returns all machines ordered by name.
func (s *Store) ListMachines(ctx context.Context) ([]domain.Machine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description FROM machines ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing machines: %w", err)
	}
	defer rows.Close()

	var machines []domain.Machine
	for rows.Next() {
		var m domain.Machine
		if err := rows.Scan(&m.ID, &m.Name, &m.Description); err != nil {
			return nil, fmt.Errorf("scanning machine: %w", err)
		}
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

// SaveManual persists a manual record.
func (s *Store) SaveManual(ctx context.Context, manual *domain.Manual) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manuals (id, title, manual_type, source_url, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			manual_type = excluded.manual_type,
			source_url = excluded.source_url
	`, manual.ID, manual.Title, manual.ManualType, manual.SourceURL, manual.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving manual: %w", err)
	}
	return nil
}

// GetManual retrieves a manual by ID.
func (s *Store) GetManual(ctx context.Context, id string) (*domain.Manual, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, manual_type, source_url, created_at
		FROM manuals WHERE id = ?
	`, id)

	var manual domain.Manual
	if err := row.Scan(&manual.ID, &manual.Title, &manual.ManualType,
		&manual.SourceURL, &manual.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning manual: %w", err)
	}
	return &manual, nil
}

// LinkMachineManual attaches a manual to a machine. Linking the same pair
// twice is a no-op.
func (s *Store) LinkMachineManual(ctx context.Context, machineID, manualID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO machine_manuals (machine_id, manual_id) VALUES (?, ?)
	`, machineID, manualID)
	if err != nil {
		return fmt.Errorf("linking machine to manual: %w", err)
	}
	return nil
}

// ==================== Notes ====================

// InsertNote persists a note and its embedding as one atomic unit.
func (s *Store) InsertNote(ctx context.Context, note *domain.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, text, machine_id, embedding, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, note.ID, note.Text, nullString(note.MachineID),
		float32SliceToBytes(note.Embedding), note.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}
	return nil
}

// ListNotes returns all notes, newest first.
func (s *Store) ListNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, machine_id, embedding, created_at
		FROM notes ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// ==================== Manual chunks ====================

// InsertChunks persists manual chunks and their embeddings in a single
// transaction: either all chunks commit or none do.
func (s *Store) InsertChunks(ctx context.Context, chunks []domain.ManualChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO manual_chunks (id, manual_id, text, page_number, section_title, chunk_type, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.ManualID, chunk.Text,
			chunk.PageNumber, chunk.SectionTitle, string(chunk.Type),
			float32SliceToBytes(chunk.Embedding), chunk.CreatedAt); err != nil {
			return fmt.Errorf("inserting chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// DeleteChunksByManual removes every chunk of a manual.
func (s *Store) DeleteChunksByManual(ctx context.Context, manualID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM manual_chunks WHERE manual_id = ?
	`, manualID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ==================== Semantic search ====================

// NearestNotes returns up to k notes ranked by cosine similarity.
// A scoped query sees the machine's notes plus all global notes.
func (s *Store) NearestNotes(ctx context.Context, vector []float32, k int, scope domain.Scope) ([]driven.SemanticHit, error) {
	query := `
		SELECT id, text, machine_id, embedding, created_at
		FROM notes WHERE embedding IS NOT NULL
	`
	var args []any
	if !scope.IsGlobal() {
		query += " AND (machine_id IS NULL OR machine_id = ?)"
		args = append(args, scope.MachineID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var hits []driven.SemanticHit
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		sim, ok := cosineSimilarity(vector, note.Embedding)
		if !ok {
			continue
		}
		hits = append(hits, driven.SemanticHit{
			Document:   noteDocument(note),
			Similarity: sim,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return topHits(hits, k), nil
}

// NearestChunks returns up to k manual chunks ranked by cosine similarity.
// A scoped query only sees chunks of manuals linked to the machine.
func (s *Store) NearestChunks(ctx context.Context, vector []float32, k int, scope domain.Scope) ([]driven.SemanticHit, error) {
	query := `
		SELECT c.id, c.manual_id, m.title, c.text, c.page_number, c.section_title, c.chunk_type, c.embedding, c.created_at
		FROM manual_chunks c
		JOIN manuals m ON m.id = c.manual_id
		WHERE c.embedding IS NOT NULL
	`
	var args []any
	if !scope.IsGlobal() {
		query += " AND c.manual_id IN (SELECT manual_id FROM machine_manuals WHERE machine_id = ?)"
		args = append(args, scope.MachineID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.SemanticHit
	for rows.Next() {
		doc, embedding, err := scanChunkDocument(rows)
		if err != nil {
			return nil, err
		}
		sim, ok := cosineSimilarity(vector, embedding)
		if !ok {
			continue
		}
		hits = append(hits, driven.SemanticHit{Document: doc, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return topHits(hits, k), nil
}

// ==================== Lexical corpus ====================

// AllDocuments returns the full scope-filtered document set in a stable
// order: notes by creation time then chunks by manual, page and ID. The
// lexical index is rebuilt from this exact sequence, so the ordering is
// part of the tie-break contract.
func (s *Store) AllDocuments(ctx context.Context, scope domain.Scope) ([]domain.CorpusDocument, error) {
	noteQuery := `
		SELECT id, text, machine_id, embedding, created_at
		FROM notes
	`
	var noteArgs []any
	if !scope.IsGlobal() {
		noteQuery += " WHERE machine_id IS NULL OR machine_id = ?"
		noteArgs = append(noteArgs, scope.MachineID)
	}
	noteQuery += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, noteQuery, noteArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var docs []domain.CorpusDocument
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, noteDocument(note))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chunkQuery := `
		SELECT c.id, c.manual_id, m.title, c.text, c.page_number, c.section_title, c.chunk_type, c.embedding, c.created_at
		FROM manual_chunks c
		JOIN manuals m ON m.id = c.manual_id
	`
	var chunkArgs []any
	if !scope.IsGlobal() {
		chunkQuery += " WHERE c.manual_id IN (SELECT manual_id FROM machine_manuals WHERE machine_id = ?)"
		chunkArgs = append(chunkArgs, scope.MachineID)
	}
	chunkQuery += " ORDER BY c.manual_id, c.page_number, c.id"

	chunkRows, err := s.db.QueryContext(ctx, chunkQuery, chunkArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer chunkRows.Close()

	for chunkRows.Next() {
		doc, _, err := scanChunkDocument(chunkRows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, chunkRows.Err()
}

// ==================== Helper Functions ====================

// scanNote scans one note row (id, text, machine_id, embedding, created_at).
func scanNote(rows *sql.Rows) (domain.Note, error) {
	var note domain.Note
	var machineID sql.NullString
	var embedding []byte
	if err := rows.Scan(&note.ID, &note.Text, &machineID, &embedding, &note.CreatedAt); err != nil {
		return domain.Note{}, fmt.Errorf("scanning note: %w", err)
	}
	note.MachineID = machineID.String
	note.Embedding = bytesToFloat32Slice(embedding)
	return note, nil
}

// scanChunkDocument scans one joined chunk row into a corpus document.
func scanChunkDocument(rows *sql.Rows) (domain.CorpusDocument, []float32, error) {
	var doc domain.CorpusDocument
	var id, chunkType string
	var embedding []byte
	if err := rows.Scan(&id, &doc.ManualID, &doc.ManualTitle, &doc.Text,
		&doc.PageNumber, &doc.SectionTitle, &chunkType, &embedding, &doc.CreatedAt); err != nil {
		return domain.CorpusDocument{}, nil, fmt.Errorf("scanning chunk: %w", err)
	}
	doc.Key = domain.ChunkKey(id)
	doc.Source = domain.SourceManual
	doc.ChunkType = domain.ChunkType(chunkType)
	doc.HasEmbedding = len(embedding) > 0
	return doc, bytesToFloat32Slice(embedding), nil
}

// noteDocument converts a note to its corpus-document view.
func noteDocument(note domain.Note) domain.CorpusDocument {
	return domain.CorpusDocument{
		Key:          domain.NoteKey(note.ID),
		Source:       domain.SourceNote,
		Text:         note.Text,
		HasEmbedding: len(note.Embedding) > 0,
		MachineID:    note.MachineID,
		CreatedAt:    note.CreatedAt,
	}
}

// topHits sorts hits by similarity descending (key ascending on ties, so
// results are deterministic) and truncates to k.
func topHits(hits []driven.SemanticHit, k int) []driven.SemanticHit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Document.Key < hits[j].Document.Key
	})
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// cosineSimilarity returns the cosine of the two vectors clamped to
// [0, 1]. ok is false when the vectors cannot be compared (dimension
// mismatch or a zero vector).
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, true
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// nullString returns a sql.NullString that is NULL for empty strings.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

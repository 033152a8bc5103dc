package services

import (
	"context"
	"fmt"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
)

// --- Mock implementations shared by the service tests ---

// mockCorpusStore implements driven.CorpusStore for testing.
type mockCorpusStore struct {
	notes    []domain.Note
	machines map[string]domain.Machine // by name
	manuals  map[string]*domain.Manual // by ID

	noteHits  []driven.SemanticHit
	chunkHits []driven.SemanticHit
	docs      []domain.CorpusDocument

	insertedNotes  []*domain.Note
	insertedChunks []domain.ManualChunk
	deletedManuals []string
	links          [][2]string

	insertNoteErr   error
	insertChunksErr error
	deleteErr       error
	nearestErr      error
	allDocsErr      error
}

func newMockCorpusStore() *mockCorpusStore {
	return &mockCorpusStore{
		machines: make(map[string]domain.Machine),
		manuals:  make(map[string]*domain.Manual),
	}
}

func (m *mockCorpusStore) InsertNote(_ context.Context, note *domain.Note) error {
	if m.insertNoteErr != nil {
		return m.insertNoteErr
	}
	m.insertedNotes = append(m.insertedNotes, note)
	return nil
}

func (m *mockCorpusStore) ListNotes(_ context.Context) ([]domain.Note, error) {
	return m.notes, nil
}

func (m *mockCorpusStore) SaveMachine(_ context.Context, machine domain.Machine) (string, error) {
	if existing, ok := m.machines[machine.Name]; ok {
		return existing.ID, nil
	}
	machine.ID = fmt.Sprintf("machine-%d", len(m.machines)+1)
	m.machines[machine.Name] = machine
	return machine.ID, nil
}

func (m *mockCorpusStore) GetMachineByName(_ context.Context, name string) (*domain.Machine, error) {
	machine, ok := m.machines[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &machine, nil
}

func (m *mockCorpusStore) ListMachines(_ context.Context) ([]domain.Machine, error) {
	var out []domain.Machine
	for _, machine := range m.machines {
		out = append(out, machine)
	}
	return out, nil
}

func (m *mockCorpusStore) SaveManual(_ context.Context, manual *domain.Manual) error {
	m.manuals[manual.ID] = manual
	return nil
}

func (m *mockCorpusStore) GetManual(_ context.Context, id string) (*domain.Manual, error) {
	manual, ok := m.manuals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return manual, nil
}

func (m *mockCorpusStore) LinkMachineManual(_ context.Context, machineID, manualID string) error {
	m.links = append(m.links, [2]string{machineID, manualID})
	return nil
}

func (m *mockCorpusStore) InsertChunks(_ context.Context, chunks []domain.ManualChunk) error {
	if m.insertChunksErr != nil {
		return m.insertChunksErr
	}
	m.insertedChunks = append(m.insertedChunks, chunks...)
	return nil
}

func (m *mockCorpusStore) DeleteChunksByManual(_ context.Context, manualID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedManuals = append(m.deletedManuals, manualID)
	return nil
}

func (m *mockCorpusStore) NearestNotes(_ context.Context, _ []float32, k int, _ domain.Scope) ([]driven.SemanticHit, error) {
	if m.nearestErr != nil {
		return nil, m.nearestErr
	}
	if k > len(m.noteHits) {
		return m.noteHits, nil
	}
	return m.noteHits[:k], nil
}

func (m *mockCorpusStore) NearestChunks(_ context.Context, _ []float32, k int, _ domain.Scope) ([]driven.SemanticHit, error) {
	if m.nearestErr != nil {
		return nil, m.nearestErr
	}
	if k > len(m.chunkHits) {
		return m.chunkHits, nil
	}
	return m.chunkHits[:k], nil
}

func (m *mockCorpusStore) AllDocuments(_ context.Context, _ domain.Scope) ([]domain.CorpusDocument, error) {
	if m.allDocsErr != nil {
		return nil, m.allDocsErr
	}
	return m.docs, nil
}

func (m *mockCorpusStore) Close() error { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedErr error
	batchErr error
	pingErr  error

	dims       int
	embedCalls int
}

func (m *mockEmbeddingService) dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return domain.EmbeddingDimensions
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.embedCalls++
	return make([]float32, m.dimensions()), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, m.dimensions())
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return m.dimensions() }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVisionService implements driven.VisionService for testing.
type mockVisionService struct {
	description string
	describeErr error
	calls       int
}

func (m *mockVisionService) Describe(_ context.Context, _ []byte) (string, error) {
	m.calls++
	if m.describeErr != nil {
		return "", m.describeErr
	}
	return m.description, nil
}

func (m *mockVisionService) ModelName() string { return "mock-vision" }

func (m *mockVisionService) Ping(_ context.Context) error { return nil }

func (m *mockVisionService) Close() error { return nil }

// mockPageExtractor implements driven.PageExtractor for testing.
type mockPageExtractor struct {
	pages      []domain.Page
	extractErr error
}

func (m *mockPageExtractor) Extract(_ context.Context, _ string) ([]domain.Page, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.pages, nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply       string
	generateErr error

	lastPrompt string
	lastOpts   driven.GenerateOptions
	calls      int
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockRetriever implements driving.RetrievalService for testing.
type mockRetriever struct {
	hits  []domain.RetrievalHit
	debug domain.RetrievalDebug
	err   error

	lastQuery string
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, _ domain.RetrievalOptions) ([]domain.RetrievalHit, domain.RetrievalDebug, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, domain.RetrievalDebug{}, m.err
	}
	return m.hits, m.debug, nil
}

var (
	_ driven.CorpusStore       = (*mockCorpusStore)(nil)
	_ driven.EmbeddingService  = (*mockEmbeddingService)(nil)
	_ driven.VisionService     = (*mockVisionService)(nil)
	_ driven.PageExtractor     = (*mockPageExtractor)(nil)
	_ driven.LLMService        = (*mockLLMService)(nil)
	_ driving.RetrievalService = (*mockRetriever)(nil)
)

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
	"github.com/floorwise/floorwise-cli/internal/index"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// Ensure the services implement their interfaces.
var (
	_ driving.NoteService    = (*NoteService)(nil)
	_ driving.MachineService = (*MachineService)(nil)
)

// NoteService creates and lists shop-floor notes.
type NoteService struct {
	store    driven.CorpusStore
	embedder driven.EmbeddingService
	indexes  *index.Manager
}

// NewNoteService creates a note service.
func NewNoteService(store driven.CorpusStore, embedder driven.EmbeddingService, indexes *index.Manager) *NoteService {
	return &NoteService{
		store:    store,
		embedder: embedder,
		indexes:  indexes,
	}
}

// Create embeds and persists a new note. When machineName is non-empty
// the note is scoped to that machine, creating the record if needed;
// otherwise the note is global and visible under every scope.
func (s *NoteService) Create(ctx context.Context, text, machineName string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is empty", domain.ErrInvalidInput)
	}

	var machineID string
	if machineName != "" {
		id, err := s.store.SaveMachine(ctx, domain.Machine{Name: machineName})
		if err != nil {
			return nil, fmt.Errorf("resolving machine %q: %w", machineName, err)
		}
		machineID = id
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding note: %w", err)
	}
	if len(vector) != domain.EmbeddingDimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimensions, len(vector), domain.EmbeddingDimensions)
	}

	note := &domain.Note{
		ID:        uuid.NewString(),
		Text:      text,
		MachineID: machineID,
		Embedding: vector,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertNote(ctx, note); err != nil {
		return nil, fmt.Errorf("persisting note: %w", err)
	}
	s.indexes.Invalidate()

	logger.Debug("Created note %s (machine=%q)", note.ID, machineName)
	return note, nil
}

// List returns all notes, newest first.
func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// MachineService manages the machine and manual registry.
type MachineService struct {
	store driven.CorpusStore
}

// NewMachineService creates a machine service.
func NewMachineService(store driven.CorpusStore) *MachineService {
	return &MachineService{store: store}
}

// AddMachine upserts a machine by name and returns its ID.
func (s *MachineService) AddMachine(ctx context.Context, name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: machine name is empty", domain.ErrInvalidInput)
	}
	id, err := s.store.SaveMachine(ctx, domain.Machine{Name: name, Description: description})
	if err != nil {
		return "", fmt.Errorf("saving machine %q: %w", name, err)
	}
	return id, nil
}

// ListMachines returns all machines ordered by name.
func (s *MachineService) ListMachines(ctx context.Context) ([]domain.Machine, error) {
	machines, err := s.store.ListMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing machines: %w", err)
	}
	return machines, nil
}

// AddManual creates a manual record and returns it.
func (s *MachineService) AddManual(ctx context.Context, title, manualType, sourceURL string) (*domain.Manual, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: manual title is empty", domain.ErrInvalidInput)
	}
	manual := &domain.Manual{
		ID:         uuid.NewString(),
		Title:      title,
		ManualType: manualType,
		SourceURL:  sourceURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.SaveManual(ctx, manual); err != nil {
		return nil, fmt.Errorf("saving manual %q: %w", title, err)
	}
	return manual, nil
}

// LinkManual attaches a manual to a machine by machine name, creating
// the machine record if needed.
func (s *MachineService) LinkManual(ctx context.Context, machineName, manualID string) error {
	machineID, err := s.store.SaveMachine(ctx, domain.Machine{Name: machineName})
	if err != nil {
		return fmt.Errorf("resolving machine %q: %w", machineName, err)
	}
	if _, err := s.store.GetManual(ctx, manualID); err != nil {
		return fmt.Errorf("resolving manual %s: %w", manualID, err)
	}
	if err := s.store.LinkMachineManual(ctx, machineID, manualID); err != nil {
		return fmt.Errorf("linking manual %s to machine %q: %w", manualID, machineName, err)
	}
	return nil
}

package driving

import (
	"context"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// NoteService manages shop-floor notes.
type NoteService interface {
	// Create embeds and persists a new note. machineName is optional;
	// when given it is resolved (creating the machine if needed) and the
	// note is scoped to it.
	Create(ctx context.Context, text, machineName string) (*domain.Note, error)

	// List returns all notes, newest first.
	List(ctx context.Context) ([]domain.Note, error)
}

// MachineService manages the machine and manual registry.
type MachineService interface {
	// AddMachine upserts a machine by name and returns its ID.
	AddMachine(ctx context.Context, name, description string) (string, error)

	// ListMachines returns all machines ordered by name.
	ListMachines(ctx context.Context) ([]domain.Machine, error)

	// AddManual creates a manual record and returns it.
	AddManual(ctx context.Context, title, manualType, sourceURL string) (*domain.Manual, error)

	// LinkManual attaches a manual to a machine by machine name.
	LinkManual(ctx context.Context, machineName, manualID string) error
}

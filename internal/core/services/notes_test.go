package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/index"
)

func TestNoteCreate_Global(t *testing.T) {
	store := newMockCorpusStore()
	svc := NewNoteService(store, &mockEmbeddingService{}, index.NewManager(store))

	note, err := svc.Create(context.Background(), "  Coolant low on the big press  ", "")

	require.NoError(t, err)
	assert.Equal(t, "Coolant low on the big press", note.Text)
	assert.Empty(t, note.MachineID)
	assert.Len(t, note.Embedding, domain.EmbeddingDimensions)
	assert.NotEmpty(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())
	require.Len(t, store.insertedNotes, 1)
}

func TestNoteCreate_ScopedCreatesMachine(t *testing.T) {
	store := newMockCorpusStore()
	svc := NewNoteService(store, &mockEmbeddingService{}, index.NewManager(store))

	note, err := svc.Create(context.Background(), "Spindle bearing noisy at 3000 RPM", "Haas VF-2")

	require.NoError(t, err)
	require.Contains(t, store.machines, "Haas VF-2")
	assert.Equal(t, store.machines["Haas VF-2"].ID, note.MachineID)
}

func TestNoteCreate_ReusesExistingMachine(t *testing.T) {
	store := newMockCorpusStore()
	store.machines["Haas VF-2"] = domain.Machine{ID: "machine-7", Name: "Haas VF-2"}
	svc := NewNoteService(store, &mockEmbeddingService{}, index.NewManager(store))

	note, err := svc.Create(context.Background(), "Tool changer alarm cleared", "Haas VF-2")

	require.NoError(t, err)
	assert.Equal(t, "machine-7", note.MachineID)
}

func TestNoteCreate_EmptyTextRejected(t *testing.T) {
	store := newMockCorpusStore()
	svc := NewNoteService(store, &mockEmbeddingService{}, index.NewManager(store))

	_, err := svc.Create(context.Background(), "   ", "")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.insertedNotes)
}

func TestNoteCreate_EmbeddingFailure(t *testing.T) {
	store := newMockCorpusStore()
	svc := NewNoteService(store, &mockEmbeddingService{embedErr: errors.New("backend down")}, index.NewManager(store))

	_, err := svc.Create(context.Background(), "Vibration on the main spindle", "")

	require.Error(t, err)
	assert.Empty(t, store.insertedNotes)
}

func TestNoteList(t *testing.T) {
	store := newMockCorpusStore()
	store.notes = []domain.Note{
		{ID: "a", Text: "newest", CreatedAt: time.Now()},
		{ID: "b", Text: "older", CreatedAt: time.Now().Add(-time.Hour)},
	}
	svc := NewNoteService(store, &mockEmbeddingService{}, index.NewManager(store))

	notes, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "a", notes[0].ID)
}

func TestMachineService_AddAndLink(t *testing.T) {
	store := newMockCorpusStore()
	svc := NewMachineService(store)

	id, err := svc.AddMachine(context.Background(), "Okuma LB3000", "turning centre, cell 4")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	manual, err := svc.AddManual(context.Background(), "Okuma Maintenance Manual", "maintenance", "")
	require.NoError(t, err)
	assert.NotEmpty(t, manual.ID)
	assert.False(t, manual.CreatedAt.IsZero())

	require.NoError(t, svc.LinkManual(context.Background(), "Okuma LB3000", manual.ID))
	require.Len(t, store.links, 1)
	assert.Equal(t, id, store.links[0][0])
	assert.Equal(t, manual.ID, store.links[0][1])
}

func TestMachineService_LinkUnknownManual(t *testing.T) {
	store := newMockCorpusStore()
	svc := NewMachineService(store)

	err := svc.LinkManual(context.Background(), "Okuma LB3000", "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.links)
}

func TestMachineService_EmptyNamesRejected(t *testing.T) {
	svc := NewMachineService(newMockCorpusStore())

	_, err := svc.AddMachine(context.Background(), "  ", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddManual(context.Background(), "", "operator", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

func TestNoteAddCmd_Global(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "note", "add", "Coolant low on the big press")

	require.NoError(t, err)
	assert.Contains(t, out, "Added global note")
}

func TestNoteAddCmd_Scoped(t *testing.T) {
	setupTestServices(t)
	t.Cleanup(func() { noteMachine = "" })

	out, err := executeCommand(t, "note", "add", "Spindle noisy", "--machine", "Haas VF-2")

	require.NoError(t, err)
	assert.Contains(t, out, `machine "Haas VF-2"`)
}

func TestNoteAddCmd_ServiceError(t *testing.T) {
	fakes := setupTestServices(t)
	fakes.note.err = errors.New("embedding backend down")
	fakes.note.note = nil

	_, err := executeCommand(t, "note", "add", "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "adding note failed")
}

func TestNoteListCmd(t *testing.T) {
	fakes := setupTestServices(t)
	fakes.note.notes = []domain.Note{
		{ID: "1", Text: "Coolant low", CreatedAt: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)},
		{ID: "2", Text: "Spindle noisy", MachineID: "machine-1", CreatedAt: time.Date(2026, 8, 19, 14, 0, 0, 0, time.UTC)},
	}

	out, err := executeCommand(t, "note", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Coolant low")
	assert.Contains(t, out, "[global]")
	assert.Contains(t, out, "[machine machine-1]")
}

func TestNoteListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "note", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No notes recorded yet.")
}

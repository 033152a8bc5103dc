package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "floorwise version dev")
}

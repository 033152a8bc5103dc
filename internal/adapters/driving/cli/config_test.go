package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigGetCmd_MissingKey(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "config", "get", "embedding.provider")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "embedding.provider" is not set`)
}

func TestConfigSetThenGet(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "config", "set", "embedding.provider", "ollama")
	require.NoError(t, err)
	assert.Contains(t, out, "Set embedding.provider")

	out, err = executeCommand(t, "config", "get", "embedding.provider")
	require.NoError(t, err)
	assert.Contains(t, out, "ollama")
}

func TestConfigSetCmd_TypesValues(t *testing.T) {
	fakes := setupTestServices(t)

	_, err := executeCommand(t, "config", "set", "retrieval.alpha", "0.7")
	require.NoError(t, err)
	_, err = executeCommand(t, "config", "set", "retrieval.top_k", "10")
	require.NoError(t, err)
	_, err = executeCommand(t, "config", "set", "logging.verbose", "true")
	require.NoError(t, err)

	assert.Equal(t, 0.7, fakes.config.values["retrieval.alpha"])
	assert.Equal(t, int64(10), fakes.config.values["retrieval.top_k"])
	assert.Equal(t, true, fakes.config.values["logging.verbose"])
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, int64(7), parseConfigValue("7"))
	assert.Equal(t, 0.28, parseConfigValue("0.28"))
	assert.Equal(t, "all-minilm", parseConfigValue("all-minilm"))
}

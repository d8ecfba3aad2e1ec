package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"io.winapps.traveljournal/internal/config"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")

	log, err := NewLogger("production", config.LogConfig{Level: "debug", Path: path})
	require.NoError(t, err)

	log.Infow("entry created", "entry_id", "e1")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"entry created"`)
	assert.Contains(t, string(raw), `"entry_id":"e1"`)
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := NewLogger("development", config.LogConfig{Level: "loud"})
	require.NoError(t, err)

	assert.False(t, log.Desugar().Core().Enabled(-1)) // debug
	assert.True(t, log.Desugar().Core().Enabled(0))   // info
}

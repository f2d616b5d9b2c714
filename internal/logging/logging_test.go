package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQuietWithoutFileIsNop(t *testing.T) {
	logger, err := New(Options{Quiet: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestFileOutputAndLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grimoire.log")

	logger, err := New(Options{File: path, Quiet: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	logger.Warn("sync failed", zap.String("item_id", "ush"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"item_id":"ush"`)
}

func TestVerboseEnablesDebug(t *testing.T) {
	logger, err := New(Options{Verbose: true, File: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

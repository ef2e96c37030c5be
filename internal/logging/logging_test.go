package logging

import (
	"os"
	"path/filepath"
	"testing"

	"newsmark/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	cfg := config.Default().Log
	cfg.Dev = false
	cfg.File = filepath.Join(t.TempDir(), "newsmark.log")

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("Bookmarks written")
	logger.Debug("dropped at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Bookmarks written"`)
	assert.NotContains(t, string(data), "dropped at info level")
}

func TestNew_BadLevel(t *testing.T) {
	cfg := config.Default().Log
	cfg.Level = "loud"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	logger, err := New(config.Default().Log)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

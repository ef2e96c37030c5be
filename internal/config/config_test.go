package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	t.Setenv("NEWSAPI_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultBookmarksKey, cfg.Storage.BookmarksKey)
	assert.Equal(t, 5, cfg.NewsAPI.PageSize)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("NEWSAPI_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "newsmark.yaml")
	content := `
storage:
  backend: bolt
  path: /tmp/bm.db
newsapi:
  page_size: 20
  timeout: 3s
log:
  file: /tmp/newsmark.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/bm.db", cfg.Storage.Path)
	assert.Equal(t, DefaultBookmarksKey, cfg.Storage.BookmarksKey)
	assert.Equal(t, 20, cfg.NewsAPI.PageSize)
	assert.Equal(t, 3*time.Second, cfg.NewsAPI.Timeout)
	assert.Equal(t, "us", cfg.NewsAPI.Country)
	assert.Equal(t, "from-env", cfg.NewsAPI.APIKey)
	assert.Equal(t, "/tmp/newsmark.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: floppy\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

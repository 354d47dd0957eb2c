package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesLayerOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
logging:
  level: debug
  format: json
search:
  whole_word: false
  max_results: 50
  workers: 2
  exclude: [".git"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Search.WholeWord)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, 2, cfg.Search.Workers)
	assert.Equal(t, []string{".git"}, cfg.Search.Exclude)
	// Untouched section keeps its default.
	assert.True(t, cfg.Hints.Enabled)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("logging: ["), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName),
		[]byte("logging:\n  level: loud\n"), 0644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "logging level")
}

func TestLoad_RejectsZeroWorkers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName),
		[]byte("search:\n  workers: 0\n"), 0644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "workers")
}

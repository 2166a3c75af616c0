package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, errs := Load("")
	require.Empty(t, errs)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FileAndIndexes(t *testing.T) {
	path := writeConfig(t, `
port: 9090
data_dir: /tmp/ranking
log_level: DEBUG
indexes:
  - name: products
    searchable_fields: [title, description]
    filterable_fields: [color, price]
    sortable_fields: [price]
    matching_strategy: last
    hybrid:
      dimensions: 3
      vector_field: embedding
      policy: weighted
      semantic_ratio: 0.5
`)
	cfg, errs := Load(path)
	require.Empty(t, errs)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/ranking", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)

	require.Len(t, cfg.Indexes, 1)
	idx := cfg.Indexes[0]
	assert.Equal(t, "products", idx.Name)
	assert.Equal(t, []string{"title", "description"}, idx.SearchableFields)
	assert.Equal(t, MatchingLast, idx.MatchingStrategy)
	assert.Equal(t, HybridWeighted, idx.Hybrid.Policy)
	assert.InDelta(t, 0.5, idx.Hybrid.SemanticRatio, 1e-9)
	assert.Equal(t, 5, idx.MinWordSizeFor1Typo, "index defaults are applied")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9090\n")
	t.Setenv("RANKING_PORT", "7070")
	t.Setenv("RANKING_LOG_FORMAT", "json")

	cfg, errs := Load(path)
	require.Empty(t, errs)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_CollectsValidationErrors(t *testing.T) {
	t.Setenv("RANKING_PORT", "not-a-number")
	t.Setenv("RANKING_LOG_LEVEL", "verbose")

	_, errs := Load("")
	assert.Contains(t, errs, ErrInvalidPort)
	assert.Contains(t, errs, ErrInvalidLogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, errs := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Len(t, errs, 1)
}

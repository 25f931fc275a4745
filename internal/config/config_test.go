package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 2500, cfg.Search.MaxContextChars)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Std())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
corpus:
  path: /srv/roadwise/knowledge_base.json
search:
  top_k: 8
cache:
  ttl: 15m
generation:
  model: grok-3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/roadwise/knowledge_base.json", cfg.Corpus.Path)
	assert.Equal(t, 8, cfg.Search.TopK)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL.Std())
	assert.Equal(t, "grok-3", cfg.Generation.Model)
	// Untouched fields keep their defaults.
	assert.Equal(t, 2500, cfg.Search.MaxContextChars)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  top_k: 8\n"), 0o644))

	t.Setenv("ROADWISE_TOP_K", "3")
	t.Setenv("ROADWISE_CORPUS", "/tmp/kb.json")
	t.Setenv("XAI_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Search.TopK)
	assert.Equal(t, "/tmp/kb.json", cfg.Corpus.Path)
	assert.Equal(t, "secret", cfg.Generation.APIKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  top_k: -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, WriteTemplate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "corpus:")

	assert.Error(t, WriteTemplate(path), "refuses to overwrite")
}

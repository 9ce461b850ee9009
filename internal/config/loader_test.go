package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, "git", cfg.Git.Path)
	assert.Equal(t, 30*time.Second, cfg.Git.ExecTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.HistoricalTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Cache.VolatileTTL)
	assert.False(t, cfg.Logging.FileEnabled)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `git:
  path: /usr/local/bin/git
  exec_timeout: 5s
cache:
  historical_ttl: 10m
  volatile_ttl: 250ms
logging:
  file_enabled: true
  max_size_mb: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/git", cfg.Git.Path)
	assert.Equal(t, 5*time.Second, cfg.Git.ExecTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.HistoricalTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Cache.VolatileTTL)
	assert.True(t, cfg.Logging.FileEnabled)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
	// Unset keys keep their defaults.
	assert.Equal(t, 7, cfg.Logging.MaxAgeDays)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(":::"), 0o644))

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
}

func TestTTLPolicyConversion(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.TTLPolicy()
	assert.Equal(t, cfg.Cache.HistoricalTTL, p.Historical)
	assert.Equal(t, cfg.Cache.VolatileTTL, p.Volatile)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, WriteDefault(path))
	require.Error(t, WriteDefault(path), "must not overwrite")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "exec_timeout")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialDocumentFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, Default().StaticRoot, cfg.StaticRoot)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 70000\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativePollTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_timeout_ms: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: verbose\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWSServerConfigProjection(t *testing.T) {
	cfg := Default()
	wc := cfg.WSServerConfig()
	assert.Equal(t, cfg.StaticRoot, wc.StaticRoot)
	assert.Equal(t, cfg.MaxFrameBytes, wc.MaxFrameBytes)
}

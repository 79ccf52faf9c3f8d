package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.NotEmpty(t, cfg.Session)
}

func TestLoadValidFile(t *testing.T) {
	path := writeConfig(t, "server: https://food.example.com\ntimeout: 10\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://food.example.com", cfg.Server)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, "timeout: 30\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
}

func TestLoadRejectsBadServerURL(t *testing.T) {
	path := writeConfig(t, "server: localhost:8081\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	for _, content := range []string{"timeout: 0\n", "timeout: -3\n", "timeout: 5000\n"} {
		path := writeConfig(t, content)

		_, err := Load(path)
		require.Error(t, err, "content %q must be rejected", content)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
}

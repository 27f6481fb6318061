package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeConfig(t, `
self: p0
threshold: 1
parties:
  - id: p0
    address: 127.0.0.1:9000
  - id: p1
    address: 127.0.0.1:9001
  - id: p2
    address: 127.0.0.1:9002
preproc_dir: /tmp/preproc
log_level: info
`)

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, len(c.Parties))
	assert.Equal(t, 1, c.Threshold)
	assert.False(t, c.DebugChecks)
}

func TestLoadRejectsUnknownSelf(t *testing.T) {
	path := writeConfig(t, `
self: p9
threshold: 1
parties:
  - id: p0
    address: a
  - id: p1
    address: b
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
self: p0
threshold: 5
parties:
  - id: p0
    address: a
  - id: p1
    address: b
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateParty(t *testing.T) {
	path := writeConfig(t, `
self: p0
threshold: 1
parties:
  - id: p0
    address: a
  - id: p0
    address: b
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

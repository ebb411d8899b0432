package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mintconv/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{SourceDir: "docs", OutputDir: "site"}).Save(configPath))

	var buf bytes.Buffer
	require.NoError(t, runClear(configPath, true, &buf))

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "Configuration cleared")
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	var buf bytes.Buffer
	require.NoError(t, runClear(configPath, true, &buf))
	require.NoError(t, runClear(configPath, true, &buf))
	assert.Contains(t, buf.String(), "No config file to remove")
}

func TestRunClear_EnvNote(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINTCONV_JOBS", "2")

	var buf bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf))
	assert.Contains(t, buf.String(), "Environment variables will still be used: MINTCONV_JOBS")
}

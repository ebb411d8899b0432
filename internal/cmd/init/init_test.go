package init

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mintconv/internal/config"
)

func TestRunInit_NoInput(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	var buf bytes.Buffer

	err := runInit(&initOptions{
		sourceDir:  "docs",
		outputDir:  "site",
		jobs:       2,
		noInput:    true,
		configPath: configPath,
		stdout:     &buf,
	})
	require.NoError(t, err)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.SourceDir)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, ".mdx", cfg.OutputExt)
	assert.Equal(t, []string{".md", ".mdx"}, cfg.DropLinkSuffixes)
	assert.Contains(t, buf.String(), "Configuration saved to "+configPath)
	assert.Contains(t, buf.String(), "does not exist yet")
}

func TestRunInit_NoInputInvalid(t *testing.T) {
	err := runInit(&initOptions{
		outputDir:  "site",
		jobs:       1,
		noInput:    true,
		configPath: filepath.Join(t.TempDir(), "config.yml"),
		stdout:     &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source_dir is required")
}

func TestRunInit_ExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{SourceDir: "old", OutputDir: "out"}).Save(configPath))

	opts := &initOptions{
		sourceDir:  t.TempDir(),
		outputDir:  "site",
		jobs:       4,
		noInput:    true,
		configPath: configPath,
		stdout:     &bytes.Buffer{},
	}

	err := runInit(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --force")

	opts.force = true
	require.NoError(t, runInit(opts))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, opts.sourceDir, cfg.SourceDir)
}

func TestValidateJobs(t *testing.T) {
	assert.NoError(t, validateJobs("3"))
	assert.Error(t, validateJobs("0"))
	assert.Error(t, validateJobs("many"))
}

func TestRequired(t *testing.T) {
	check := required("output directory")
	assert.NoError(t, check("site"))
	assert.EqualError(t, check(""), "output directory is required")
}

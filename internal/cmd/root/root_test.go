package root

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmdRoot_Subcommands(t *testing.T) {
	cmd := NewCmdRoot()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "convert", "tokens", "links", "config", "completion", "mv"} {
		assert.Contains(t, names, want)
	}
}

func TestNewCmdRoot_GlobalFlags(t *testing.T) {
	cmd := NewCmdRoot()
	flags := cmd.PersistentFlags()

	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.Equal(t, "o", flags.Lookup("output").Shorthand)
	assert.Equal(t, "", flags.Lookup("output").DefValue)
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.Equal(t, "q", flags.Lookup("quiet").Shorthand)
	assert.NotNil(t, flags.Lookup("no-color"))
}

func TestNewCmdRoot_Version(t *testing.T) {
	cmd := NewCmdRoot()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), "mintconv version "))
}

func TestNewCmdRoot_ConvertStdin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewCmdRoot()
	out := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader("=== \"Go\"\n    go run .\n"))
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"convert"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "<Tabs>\n  <Tab title=\"Go\">\n    go run .\n  </Tab>\n</Tabs>\n", out.String())
}

func TestNewCmdRoot_ConfigFlag(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("source_dir: docs\noutput_dir: site\n"), 0644))
	t.Setenv("MINTCONV_SOURCE_DIR", "")
	t.Setenv("MINTCONV_OUTPUT_DIR", "")

	cmd := NewCmdRoot()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"config", "show", "--config", configPath, "--no-color"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "docs  (source: config)")
	assert.Contains(t, out.String(), "Config file: "+configPath)
}

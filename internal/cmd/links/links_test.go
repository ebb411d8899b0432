package links

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestOptions(t *testing.T, output string) (*linksOptions, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MINTCONV_SOURCE_DIR", "")

	var stdout, stderr bytes.Buffer
	return &linksOptions{output: output, noColor: true, stdout: &stdout, stderr: &stderr}, &stdout, &stderr
}

func TestRunLinks_AllResolve(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "[a](guide/setup.md) [b](guide/setup) [c](guide) [d](https://x.dev/missing.md) [e](#top)\n")
	writeFile(t, filepath.Join(root, "guide", "setup.md"), "# Setup\n\nBack to [home](../index.md#intro).\n")
	writeFile(t, filepath.Join(root, "guide", "index.md"), "# Guide\n")

	opts, stdout, _ := newTestOptions(t, "table")
	require.NoError(t, runLinks(root, opts))
	assert.Contains(t, stdout.String(), "No broken links found in 3 documents")
}

func TestRunLinks_Broken(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "# Home\n\nSee [gone](gone.md).\n\n```\n[skip](code.md)\n```\n")
	writeFile(t, filepath.Join(root, "guide", "a.md"), "!!! note\n    Read [b](b.mdx#x).\n")

	opts, stdout, _ := newTestOptions(t, "table")
	err := runLinks(root, opts)
	require.Error(t, err)
	assert.Equal(t, "2 broken links found", err.Error())

	out := stdout.String()
	assert.Contains(t, out, "gone.md")
	assert.Contains(t, out, "b.mdx#x")
	assert.NotContains(t, out, "code.md")
	assert.Contains(t, out, "2 broken links found.")
}

func TestRunLinks_JSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "Line one\n[x](missing.md)\n")

	opts, stdout, _ := newTestOptions(t, "json")
	require.Error(t, runLinks(root, opts))

	var broken []BrokenLink
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &broken))
	assert.Equal(t, []BrokenLink{{File: "a.md", Line: 2, Link: "missing.md"}}, broken)
}

func TestRunLinks_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.md"), "Fine\n")
	writeFile(t, filepath.Join(root, "generated", "ref.md"), "[x](missing.md)\n")

	opts, _, _ := newTestOptions(t, "plain")
	opts.exclude = []string{"generated"}
	require.NoError(t, runLinks(root, opts))
}

func TestRunLinks_ParseFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bad.md"), "```\nunclosed\n")

	opts, _, stderr := newTestOptions(t, "table")
	err := runLinks(root, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 documents could not be parsed")
	assert.Contains(t, stderr.String(), "Unclosed code block")
}

func TestRunLinks_NoRoot(t *testing.T) {
	opts, _, _ := newTestOptions(t, "table")
	err := runLinks("", opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source_dir configured")
}

func TestRunLinks_OutputFormatFromConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "[x](missing.md)\n")

	opts, stdout, _ := newTestOptions(t, "")
	opts.configPath = filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, opts.configPath, "output_format: json\n")

	require.Error(t, runLinks(root, opts))

	var broken []BrokenLink
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &broken))
	assert.Len(t, broken, 1)
}

func TestRunLinks_InvalidGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "[x](missing.md)\n")

	opts, stdout, _ := newTestOptions(t, "table")
	opts.configPath = filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, opts.configPath, "exclude:\n  - \"docs/[a-\"\n")

	err := runLinks(root, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "invalid glob")
	assert.Empty(t, stdout.String())
}

func TestRunLinks_DoubleStarExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.md"), "Fine\n")
	writeFile(t, filepath.Join(root, "api", "v1", "generated", "ref.md"), "[x](missing.md)\n")

	opts, stdout, _ := newTestOptions(t, "table")
	opts.exclude = []string{"**/generated"}
	require.NoError(t, runLinks(root, opts))
	assert.Contains(t, stdout.String(), "in 1 documents")
}

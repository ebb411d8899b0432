package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenHeaders = []string{"LINE", "INDENT", "KIND", "VALUE"}
	tokenRows    = [][]string{
		{"1", "0", "HEADING", "# Install"},
		{"3", "4", "FENCE", "```bash"},
	}

	reportHeaders = []string{"SOURCE", "DEST", "TITLE", "STATUS"}
	reportRows    = [][]string{
		{"docs/index.md", "site/index.mdx", "Home", "written"},
		{"docs/bad.md", "site/bad.mdx", "", "failed"},
	}
)

func render(t *testing.T, format Format, fn func(r *Renderer)) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewRenderer(format, true)
	r.SetWriter(&buf)
	fn(r)
	return buf.String()
}

func TestValidateFormat(t *testing.T) {
	for _, format := range append(ValidFormats(), "") {
		assert.NoError(t, ValidateFormat(format), format)
	}
	for _, format := range []string{"xml", "JSON", "tab"} {
		err := ValidateFormat(format)
		require.Error(t, err, format)
		assert.Contains(t, err.Error(), "must be one of table, json, plain")
	}
}

func TestNewRenderer_EmptyFormatIsTable(t *testing.T) {
	assert.Equal(t, FormatTable, NewRenderer("", true).Format())
}

func TestRenderTable_TokenRows(t *testing.T) {
	out := render(t, FormatTable, func(r *Renderer) { r.RenderTable(tokenHeaders, tokenRows) })

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "LINE"))
	assert.Equal(t, strings.Index(lines[0], "KIND"), strings.Index(lines[1], "HEADING"))
	assert.Equal(t, strings.Index(lines[1], "HEADING"), strings.Index(lines[2], "FENCE"))
	assert.Contains(t, lines[2], "```bash")
}

func TestRenderTable_ReportRowsPlain(t *testing.T) {
	out := render(t, FormatPlain, func(r *Renderer) { r.RenderTable(reportHeaders, reportRows) })

	assert.Equal(t,
		"docs/index.md\tsite/index.mdx\tHome\twritten\ndocs/bad.md\tsite/bad.mdx\t\tfailed\n",
		out)
}

func TestRenderTable_ReportRowsJSON(t *testing.T) {
	out := render(t, FormatJSON, func(r *Renderer) { r.RenderTable(reportHeaders, reportRows[:1]) })

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []map[string]string{{
		"source": "docs/index.md",
		"dest":   "site/index.mdx",
		"title":  "Home",
		"status": "written",
	}}, rows)
}

func TestRenderTable_ShortRowJSON(t *testing.T) {
	out := render(t, FormatJSON, func(r *Renderer) {
		r.RenderTable([]string{"FILE", "LINE", "LINK"}, [][]string{{"a.md", "2"}})
	})

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "link")
}

func TestRenderJSON_EmptyBrokenLinks(t *testing.T) {
	out := render(t, FormatJSON, func(r *Renderer) { require.NoError(t, r.RenderJSON([]struct{}{})) })
	assert.Equal(t, "[]\n", out)
}

func TestRenderJSON_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	err := r.RenderJSON(map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode json")
	assert.Empty(t, buf.String())
}

func TestRenderKeyValue(t *testing.T) {
	table := render(t, FormatTable, func(r *Renderer) { r.RenderKeyValue("source_dir", "docs") })
	assert.Equal(t, "source_dir: docs\n", table)

	js := render(t, FormatJSON, func(r *Renderer) { r.RenderKeyValue("source_dir", "docs") })
	assert.Equal(t, "{\"source_dir\":\"docs\"}\n", js)
}

func TestStatusMessages(t *testing.T) {
	out := render(t, FormatTable, func(r *Renderer) {
		r.Success("Converted 3 documents")
		r.Warning("2 broken links found.")
		r.Error("docs/bad.md: Unclosed code block")
		r.RenderText("--- a/index.mdx")
	})

	assert.Equal(t,
		"✓ Converted 3 documents\n! 2 broken links found.\n✗ docs/bad.md: Unclosed code block\n--- a/index.mdx\n",
		out)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value  string
		maxLen int
		want   string
	}{
		{"# Install", 20, "# Install"},
		{"=== \"Python\"", 12, "=== \"Python\""},
		{"!!! warning \"Deprecated API\"", 14, "!!! warning..."},
		{"```python", 2, "``"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.value, tt.maxLen))
		})
	}
}

package md

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "first heading becomes front matter",
			input:    "# Hello (hello-anchor)\n\nWorld\n",
			expected: "---\ntitle: Hello\n---\n\nWorld\n",
		},
		{
			name:     "later heading with explicit anchor",
			input:    "# Title\n\n## Setup {#install-steps}\n",
			expected: "---\ntitle: Title\n---\n\n<a id=\"install-steps\"></a>\n## Setup\n",
		},
		{
			name:     "later heading with parenthesized anchor",
			input:    "# Title\n\n### Usage (Usage Guide)\n",
			expected: "---\ntitle: Title\n---\n\n<a id=\"usage-guide\"></a>\n### Usage\n",
		},
		{
			name:     "later heading without anchor",
			input:    "# Title\n\n## Plain\n",
			expected: "---\ntitle: Title\n---\n\n## Plain\n",
		},
		{
			name:     "first heading at any level",
			input:    "Intro\n\n### Deep\n\n## Next\n",
			expected: "Intro\n\n---\ntitle: Deep\n---\n\n## Next\n",
		},
		{
			name:     "paragraph lines trimmed",
			input:    "one  \ntwo\n",
			expected: "one\ntwo\n",
		},
		{
			name:     "fence indentation preserved relative to fence",
			input:    "  ```py\n    x = 1\ny = 2\n  ```\n",
			expected: "```py\n  x = 1\ny = 2\n```\n",
		},
		{
			name:     "fence meta reattached",
			input:    "```python title=\"a.py\"\nprint(1)\n```\n",
			expected: "```python title=\"a.py\"\nprint(1)\n```\n",
		},
		{
			name:     "empty code block",
			input:    "```\n```\n",
			expected: "```\n```\n",
		},
		{
			name:     "unordered list",
			input:    "- a\n+ b\n",
			expected: "* a\n* b\n",
		},
		{
			name:     "ordered list renumbered",
			input:    "3. a\n7. b\n9. c\n",
			expected: "1. a\n2. b\n3. c\n",
		},
		{
			name:     "nested list",
			input:    "- a\n  - b\n- c\n",
			expected: "* a\n  * b\n* c\n",
		},
		{
			name:     "list item continuation",
			input:    "1. step\n\n    more detail\n2. next\n",
			expected: "1. step\n  more detail\n2. next\n",
		},
		{
			name:     "list item starting with code",
			input:    "-\n  ```\n  x\n  ```\n",
			expected: "*\n  ```\n  x\n  ```\n",
		},
		{
			name:     "quote block",
			input:    "> a\n> b\n>\n",
			expected: "> a\n> b\n>\n",
		},
		{
			name:     "html block kept",
			input:    "<div>\n  <p>x</p>\n</div>\n",
			expected: "<div>\n  <p>x</p>\n</div>\n",
		},
		{
			name:     "tabs",
			input:    "=== \"Python\"\n    pip install x\n=== \"`JS`\"\n    npm i x\n",
			expected: "<Tabs>\n  <Tab title=\"Python\">\n    pip install x\n  </Tab>\n  <Tab title=\"JS\">\n    npm i x\n  </Tab>\n</Tabs>\n",
		},
		{
			name:     "tab with several blocks",
			input:    "=== \"A\"\n    one\n\n    two\n",
			expected: "<Tabs>\n  <Tab title=\"A\">\n    one\n\n    two\n  </Tab>\n</Tabs>\n",
		},
		{
			name:     "callout with title",
			input:    "!!! warning \"Careful\"\n    Body\n",
			expected: "<Warning>\n  **Careful**\n  Body\n</Warning>\n",
		},
		{
			name:     "callout default kind",
			input:    "!!!\n    Body\n",
			expected: "<Note>\n  Body\n</Note>\n",
		},
		{
			name:     "foldable with title",
			input:    "??? note \"More\"\n    Hidden\n",
			expected: "<Accordion title=\"More\">\n  Hidden\n</Accordion>\n",
		},
		{
			name:     "foldable without title",
			input:    "??? note\n    Hidden\n",
			expected: "<Accordion>\n  Hidden\n</Accordion>\n",
		},
		{
			name:     "foldable open by default",
			input:    "???+ tip \"Open\"\n    Shown\n",
			expected: "<Accordion title=\"Open\" defaultOpen>\n  Shown\n</Accordion>\n",
		},
		{
			name:     "conditional python",
			input:    ":::python\nHello\n\nWorld\n:::\n",
			expected: ":::python\nHello\n\nWorld\n:::\n",
		},
		{
			name:     "conditional js",
			input:    ":::js\n- a\n- b\n:::\n",
			expected: ":::js\n* a\n* b\n:::\n",
		},
		{
			name:     "explicit front matter dropped",
			input:    "---\ntitle: old\n---\n\n# New\n\nBody\n",
			expected: "---\ntitle: New\n---\n\nBody\n",
		},
		{
			name:     "only front matter",
			input:    "---\ntitle: old\n---\n",
			expected: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			result, err := Print(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPrint_CalloutKinds(t *testing.T) {
	tests := []struct {
		kind    string
		callout string
	}{
		{"note", "Note"},
		{"warning", "Warning"},
		{"info", "Info"},
		{"tip", "Tip"},
		{"danger", "Danger"},
		{"important", "Warning"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			result, err := ToMint("!!! "+tt.kind+"\n    Body\n", "")
			require.NoError(t, err)
			assert.Equal(t, "<"+tt.callout+">\n  Body\n</"+tt.callout+">\n", result)
		})
	}
}

func TestPrint_UnsupportedCalloutKind(t *testing.T) {
	_, err := ToMint("Intro\n\n!!! bogus\n    Body\n", "docs/page.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "docs/page.md", perr.FilePath)
	assert.Contains(t, err.Error(), "Unsupported admonition kind: bogus")
}

func TestPrint_TitleNeedingQuotes(t *testing.T) {
	result, err := ToMint("# Guide: Setup {#guide}\n", "")
	require.NoError(t, err)

	var fm struct {
		Title string `yaml:"title"`
	}
	body := result[len("---\n") : len(result)-len("---\n")]
	require.NoError(t, yaml.Unmarshal([]byte(body), &fm))
	assert.Equal(t, "Guide: Setup", fm.Title)
}

func TestPrint_Deterministic(t *testing.T) {
	doc, err := Parse(sampleDocument)
	require.NoError(t, err)

	first, err := Print(doc)
	require.NoError(t, err)
	second, err := Print(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrint_ContainerChildrenNotPrintable(t *testing.T) {
	p := &printer{}
	assert.Error(t, p.VisitTab(&Tab{Title: "x"}))
	assert.Error(t, p.VisitListItem(&ListItem{}))
}

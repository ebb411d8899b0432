package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, log.InfoLevel, LevelFor(false, false))
	assert.Equal(t, log.DebugLevel, LevelFor(true, false))
	assert.Equal(t, log.ErrorLevel, LevelFor(false, true))
	assert.Equal(t, log.ErrorLevel, LevelFor(true, true))
}

func TestLogger_DocumentFailed(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.DocumentFailed("docs/a.md", errors.New("Unclosed code block"))

	out := buf.String()
	assert.Contains(t, out, "conversion failed")
	assert.Contains(t, out, "docs/a.md")
	assert.Contains(t, out, "Unclosed code block")
}

func TestLogger_DebugHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.DocumentConverted("a.md", "a.mdx", true)
	assert.Empty(t, buf.String())

	verbose := NewWithLevel(&buf, log.DebugLevel)
	verbose.DocumentConverted("a.md", "a.mdx", true)
	assert.Contains(t, buf.String(), "document converted")
}

package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Use the API (v2)!", "use-the-api-v2"},
		{"snake_case_id", "snake-case-id"},
		{"already-slug", "already-slug"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSplitAnchor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		heading string
		anchor  string
	}{
		{"no anchor", "Overview", "Overview", ""},
		{"explicit", "Install {#install-steps}", "Install", "install-steps"},
		{"explicit with spaces", "Install { # Install_Now }", "Install", "install-now"},
		{"explicit wins over parens", "Run (fast) {#run}", "Run (fast)", "run"},
		{"parenthesized suffix", "Hello (hello-anchor)", "Hello", "hello-anchor"},
		{"parenthesized with trailing space", "Usage (Usage Guide)  ", "Usage", "usage-guide"},
		{"parens not at end", "Call (maybe) later", "Call (maybe) later", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heading, anchor := SplitAnchor(tt.input)
			assert.Equal(t, tt.heading, heading)
			assert.Equal(t, tt.anchor, anchor)
		})
	}
}

package md

import (
	"regexp"
	"strings"
)

var (
	// {#custom-id}
	explicitAnchorPattern = regexp.MustCompile(`\{\s*#\s*([A-Za-z0-9\-_]+)\s*\}`)
	// trailing (custom-id)
	parenAnchorPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	slugSeparators     = regexp.MustCompile(`[^a-z0-9]+`)
)

// SplitAnchor separates a heading's visible text from its anchor id. An
// explicit {#id} wins over a trailing parenthesized suffix. The returned id is
// already slugified and empty when the heading has no anchor.
func SplitAnchor(text string) (heading, anchor string) {
	if m := explicitAnchorPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(explicitAnchorPattern.ReplaceAllString(text, "")), Slugify(m[1])
	}
	if m := parenAnchorPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(parenAnchorPattern.ReplaceAllString(text, "")), Slugify(m[1])
	}
	return strings.TrimSpace(text), ""
}

// Slugify lower-cases text and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
func Slugify(text string) string {
	return strings.Trim(slugSeparators.ReplaceAllString(strings.ToLower(text), "-"), "-")
}

package md

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. A *ParseError unwraps to exactly one of these, so callers can
// classify failures with errors.Is.
var (
	// ErrStructural marks a token that cannot appear at its position.
	ErrStructural = errors.New("structural error")
	// ErrUnterminated marks a fence, conditional block or front matter that
	// was opened but never closed.
	ErrUnterminated = errors.New("unterminated construct")
	// ErrUnsupported marks content the printer has no mapping for.
	ErrUnsupported = errors.New("unsupported content")
)

// ParseError describes a fatal conversion failure. Every field except Kind
// and Message is optional.
type ParseError struct {
	Kind     error
	Message  string
	Line     int    // 1-based source line, 0 when unknown
	Token    *Token // offending token, if any
	Expected string
	Found    string
	FilePath string
}

// Error joins the populated clauses into a single sentence.
func (e *ParseError) Error() string {
	parts := []string{e.Message}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("at line %d", e.Line))
	}
	if e.Token != nil {
		parts = append(parts, fmt.Sprintf("found token %s '%s'", e.Token.Kind, e.Token.Value))
	}
	if e.Expected != "" {
		parts = append(parts, "expected "+e.Expected)
	}
	if e.Found != "" {
		parts = append(parts, "but found "+e.Found)
	}
	msg := strings.Join(parts, ", ")
	if e.FilePath != "" {
		msg = fmt.Sprintf("'%s': %s", e.FilePath, msg)
	}
	return msg
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// WithFile returns a copy of e carrying path, unless a path is already set.
func (e *ParseError) WithFile(path string) *ParseError {
	if e.FilePath != "" || path == "" {
		return e
	}
	cp := *e
	cp.FilePath = path
	return &cp
}

// errorAt builds a ParseError anchored on tok.
func errorAt(kind error, tok Token, msg, expected, found string) *ParseError {
	return &ParseError{
		Kind:     kind,
		Message:  msg,
		Line:     tok.Line,
		Token:    &tok,
		Expected: expected,
		Found:    found,
	}
}

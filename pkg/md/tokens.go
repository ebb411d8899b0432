// tokens.go defines the line token types produced by the tokenizer.
package md

// TokenKind classifies a single physical source line.
type TokenKind int

const (
	TokenText             TokenKind = iota // plain text line
	TokenBlank                             // whitespace-only line
	TokenFrontMatter                       // --- delimiter
	TokenHeading                           // # Title
	TokenFence                             // ```lang meta
	TokenULMarker                          // - item, * item, + item
	TokenOLMarker                          // 1. item, 2) item
	TokenBlockquote                        // > quoted
	TokenAdmonition                        // !!! kind "title", ??? kind "title"
	TokenTabHeader                         // === "Title"
	TokenHTMLTag                           // <div ...>
	TokenConditionalOpen                   // :::python
	TokenConditionalClose                  // :::
	TokenEOF                               // end of input (line after the last line)
)

var tokenKindNames = map[TokenKind]string{
	TokenText:             "TEXT",
	TokenBlank:            "BLANK",
	TokenFrontMatter:      "FRONT_MATTER",
	TokenHeading:          "HEADING",
	TokenFence:            "FENCE",
	TokenULMarker:         "UL_MARKER",
	TokenOLMarker:         "OL_MARKER",
	TokenBlockquote:       "BLOCKQUOTE",
	TokenAdmonition:       "ADMONITION",
	TokenTabHeader:        "TAB_HEADER",
	TokenHTMLTag:          "HTML_TAG",
	TokenConditionalOpen:  "CONDITIONAL_BLOCK_OPEN",
	TokenConditionalClose: "CONDITIONAL_BLOCK_CLOSE",
	TokenEOF:              "EOF",
}

// String returns the diagnostic name of the kind, e.g. "FENCE".
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText lets token dumps render kinds by name.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token represents one classified source line.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Value  string    `json:"value"`  // line without leading whitespace
	Line   int       `json:"line"`   // 1-based source line
	Indent int       `json:"indent"` // leading whitespace columns
}

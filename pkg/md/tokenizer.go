// tokenizer.go classifies source lines into tokens.
package md

import (
	"regexp"
	"strings"
)

const (
	fenceMarker       = "```"
	frontMatterMarker = "---"
	conditionalMarker = ":::"
	tabWidth          = 4
)

var (
	headingPattern         = regexp.MustCompile(`^#{1,6} `)
	conditionalOpenPattern = regexp.MustCompile(`^:::\w`)
	admonitionPattern      = regexp.MustCompile(`^(!!!|\?\?\?\+?)(\s|$)`)
	tabHeaderPattern       = regexp.MustCompile(`^===\s+".*"`)
	ulMarkerPattern        = regexp.MustCompile(`^[-*+]( |$)`)
	olMarkerPattern        = regexp.MustCompile(`^\d+[.)]( |$)`)
	htmlTagPattern         = regexp.MustCompile(`^<[A-Za-z/!]`)
)

// lineState tracks the multi-line constructs whose bodies must not be
// classified: fenced code and the leading front-matter section.
type lineState int

const (
	stateNormal lineState = iota
	stateFence
	stateFrontMatter
)

// Tokenize splits source into one token per physical line and terminates the
// sequence with a single TokenEOF. It never fails: lines that match no rule
// become TokenText.
func Tokenize(source string) []Token {
	lines := splitLines(source)
	tokens := make([]Token, 0, len(lines)+1)
	state := stateNormal

	for i, raw := range lines {
		lineNo := i + 1
		indent, value := measureIndent(raw)
		tok := Token{Value: value, Line: lineNo, Indent: indent}

		if strings.TrimSpace(value) == "" {
			tok.Kind = TokenBlank
			tok.Value = ""
			tok.Indent = 0
			tokens = append(tokens, tok)
			continue
		}

		switch state {
		case stateFence:
			tok.Kind = TokenText
			if strings.HasPrefix(value, fenceMarker) {
				tok.Kind = TokenFence
				state = stateNormal
			}
		case stateFrontMatter:
			tok.Kind = TokenText
			if strings.TrimRight(value, " \t") == frontMatterMarker {
				tok.Kind = TokenFrontMatter
				state = stateNormal
			}
		default:
			tok.Kind = classifyLine(value)
			switch {
			case tok.Kind == TokenFence:
				state = stateFence
			case tok.Kind == TokenFrontMatter && lineNo == 1:
				state = stateFrontMatter
			}
		}

		tokens = append(tokens, tok)
	}

	return append(tokens, Token{Kind: TokenEOF, Line: len(lines) + 1})
}

// classifyLine applies the ordered line rules to a non-blank, left-trimmed line.
func classifyLine(value string) TokenKind {
	switch {
	case strings.TrimRight(value, " \t") == frontMatterMarker:
		return TokenFrontMatter
	case strings.HasPrefix(value, fenceMarker):
		return TokenFence
	case headingPattern.MatchString(value):
		return TokenHeading
	case conditionalOpenPattern.MatchString(value):
		return TokenConditionalOpen
	case strings.TrimRight(value, " \t") == conditionalMarker:
		return TokenConditionalClose
	case admonitionPattern.MatchString(value):
		return TokenAdmonition
	case tabHeaderPattern.MatchString(value):
		return TokenTabHeader
	case ulMarkerPattern.MatchString(value):
		return TokenULMarker
	case olMarkerPattern.MatchString(value):
		return TokenOLMarker
	case strings.HasPrefix(value, ">"):
		return TokenBlockquote
	case htmlTagPattern.MatchString(value):
		return TokenHTMLTag
	default:
		return TokenText
	}
}

// splitLines splits source on newlines. A final newline does not open an
// extra empty line and carriage returns from CRLF input are dropped.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	source = strings.TrimSuffix(source, "\n")
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// measureIndent returns the leading whitespace width in columns and the
// remainder of the line.
func measureIndent(line string) (int, string) {
	cols := 0
	for i, r := range line {
		switch r {
		case ' ':
			cols++
		case '\t':
			cols += tabWidth
		default:
			return cols, line[i:]
		}
	}
	return cols, ""
}

// parser.go builds a Document from the token stream with one token of look-ahead.
package md

import (
	"fmt"
	"strings"
)

// conditionalLanguages lists the languages a :::lang block may declare.
var conditionalLanguages = map[string]bool{
	"python": true,
	"js":     true,
}

// Parse tokenizes and parses source into a Document.
func Parse(source string) (*Document, error) {
	return ParseTokens(Tokenize(source))
}

// ParseTokens parses a token sequence produced by Tokenize. The sequence must
// end with a TokenEOF token.
func ParseTokens(tokens []Token) (*Document, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		return nil, &ParseError{
			Kind:     ErrStructural,
			Message:  "Unexpected end of input",
			Expected: "token stream terminated by EOF",
			Found:    "end of input",
		}
	}
	p := &parser{tokens: tokens}
	return p.parseDocument()
}

// parser is a cursor over a materialized token slice. Only the current token
// is ever inspected; the cursor never moves backwards.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	return p.tokens[p.pos]
}

// advance consumes the current token and returns it. The EOF token is never
// consumed.
func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) check(kinds ...TokenKind) bool {
	cur := p.current().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *parser) match(kinds ...TokenKind) bool {
	if p.check(kinds...) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) parseDocument() (*Document, error) {
	var blocks []Node

	if p.check(TokenFrontMatter) {
		fm, err := p.parseFrontMatter()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, fm)
	}

	for !p.check(TokenEOF) {
		if p.match(TokenBlank) {
			continue
		}
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	limit := 1
	if len(blocks) > 0 {
		limit = blocks[len(blocks)-1].Pos().LimitLine
	}
	return &Document{Span: Span{StartLine: 1, LimitLine: limit}, Blocks: blocks}, nil
}

// parseBlock routes to the block parser for the current token.
func (p *parser) parseBlock() (Node, error) {
	switch p.current().Kind {
	case TokenHeading:
		return p.parseHeading(), nil
	case TokenFence:
		return p.parseCodeBlock()
	case TokenULMarker:
		return p.parseList(false)
	case TokenOLMarker:
		return p.parseList(true)
	case TokenBlockquote:
		return p.parseQuoteBlock(), nil
	case TokenAdmonition:
		return p.parseAdmonition()
	case TokenTabHeader:
		return p.parseTabBlock()
	case TokenHTMLTag:
		return p.parseHTMLBlock(), nil
	case TokenConditionalOpen:
		return p.parseConditionalBlock()
	default:
		return p.parseParagraph()
	}
}

// blocksUntilIndent parses blocks while the current token is indented deeper
// than minIndent. Blank lines never end the scope.
func (p *parser) blocksUntilIndent(minIndent int) ([]Node, error) {
	var blocks []Node
	for !p.check(TokenEOF) && (p.current().Indent > minIndent || p.check(TokenBlank)) {
		tok := p.current()
		switch tok.Kind {
		case TokenConditionalClose:
			return nil, errorAt(ErrStructural, tok,
				"Conditional block close ':::' has mismatched indentation - check that opening and closing tags have the same indentation level",
				fmt.Sprintf("content with indent > %d or properly indented closing tag", minIndent),
				fmt.Sprintf("conditional block close ':::' at indent %d (should match opening tag indent)", tok.Indent))
		case TokenFrontMatter:
			return nil, errorAt(ErrStructural, tok,
				"Unexpected front matter token",
				"content or block end",
				"front matter delimiter '---'")
		case TokenBlank:
			p.advance()
			continue
		}

		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (p *parser) parseFrontMatter() (*FrontMatter, error) {
	open := p.advance()
	var lines []string
	for !p.check(TokenFrontMatter) {
		if p.check(TokenEOF) {
			return nil, errorAt(ErrUnterminated, open,
				"Unclosed front matter", "closing delimiter '---'", "end of file")
		}
		tok := p.advance()
		lines = append(lines, strings.Repeat(" ", tok.Indent)+tok.Value)
	}
	closing := p.advance()
	return &FrontMatter{
		Span:    Span{StartLine: open.Line, LimitLine: closing.Line + 1},
		Content: strings.Join(lines, "\n"),
	}, nil
}

func (p *parser) parseHeading() *Heading {
	tok := p.advance()
	hashes, text, _ := strings.Cut(tok.Value, " ")
	return &Heading{
		Span:  Span{StartLine: tok.Line, LimitLine: tok.Line + 1},
		Level: len(hashes),
		Text:  text,
	}
}

func (p *parser) parseCodeBlock() (*CodeBlock, error) {
	open := p.advance()
	info := strings.TrimSpace(strings.TrimPrefix(open.Value, fenceMarker))
	language, meta, _ := strings.Cut(info, " ")
	meta = strings.TrimSpace(meta)

	var body []string
	for !p.check(TokenFence) {
		if p.check(TokenEOF) {
			return nil, errorAt(ErrUnterminated, open,
				"Unclosed code block", "closing fence '```'", "end of file")
		}
		tok := p.advance()
		// Indentation beyond the fence's own is content and is kept.
		rel := max(0, tok.Indent-open.Indent)
		body = append(body, strings.Repeat(" ", rel)+tok.Value)
	}
	closing := p.advance()

	return &CodeBlock{
		Span:     Span{StartLine: open.Line, LimitLine: closing.Line + 1},
		Language: language,
		Meta:     meta,
		Content:  strings.Join(body, "\n"),
	}, nil
}

func (p *parser) parseList(ordered bool) (Node, error) {
	listIndent := p.current().Indent
	marker := TokenULMarker
	if ordered {
		marker = TokenOLMarker
	}

	var items []*ListItem
	for p.check(marker) && p.current().Indent == listIndent {
		item, err := p.parseListItem(listIndent)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	span := Span{StartLine: items[0].StartLine, LimitLine: items[len(items)-1].LimitLine}
	if ordered {
		return &OrderedList{Span: span, Items: items}, nil
	}
	return &UnorderedList{Span: span, Items: items}, nil
}

func (p *parser) parseListItem(listIndent int) (*ListItem, error) {
	markerTok := p.advance()
	_, firstText, _ := strings.Cut(markerTok.Value, " ")
	firstText = strings.TrimSpace(firstText)

	nested, err := p.blocksUntilIndent(listIndent)
	if err != nil {
		return nil, err
	}

	blocks := make([]Node, 0, len(nested)+1)
	if firstText != "" {
		blocks = append(blocks, &Paragraph{
			Span:  Span{StartLine: markerTok.Line, LimitLine: markerTok.Line + 1},
			Lines: []string{firstText},
		})
	}
	blocks = append(blocks, nested...)

	return &ListItem{
		Span:   Span{StartLine: markerTok.Line, LimitLine: p.current().Line},
		Blocks: blocks,
	}, nil
}

func (p *parser) parseQuoteBlock() *QuoteBlock {
	first := p.advance()
	lines := []string{strings.TrimLeft(first.Value, "> ")}
	for p.check(TokenBlockquote) {
		lines = append(lines, strings.TrimLeft(p.advance().Value, "> "))
	}
	return &QuoteBlock{
		Span:  Span{StartLine: first.Line, LimitLine: p.current().Line},
		Lines: lines,
	}
}

func (p *parser) parseAdmonition() (*Admonition, error) {
	header := p.advance()
	fields := splitFields(header.Value, 3)

	kind := "note"
	if len(fields) > 1 {
		kind = strings.ToLower(fields[1])
	}
	title := ""
	if len(fields) == 3 {
		title = strings.Trim(strings.Trim(fields[2], " "), `"`)
	}

	body, err := p.blocksUntilIndent(header.Indent)
	if err != nil {
		return nil, err
	}

	return &Admonition{
		Span:   Span{StartLine: header.Line, LimitLine: p.current().Line},
		Tag:    fields[0],
		Kind:   kind,
		Title:  title,
		Blocks: body,
	}, nil
}

func (p *parser) parseTabBlock() (*TabBlock, error) {
	indent := p.current().Indent
	var tabs []*Tab
	for p.check(TokenTabHeader) && p.current().Indent == indent {
		header := p.advance()
		title := ""
		if start := strings.Index(header.Value, `"`); start >= 0 {
			if end := strings.LastIndex(header.Value, `"`); end > start {
				title = header.Value[start+1 : end]
			}
		}
		if title == "" {
			return nil, errorAt(ErrStructural, header,
				"Tab header has an empty title", `=== "Title"`, "an empty title")
		}

		body, err := p.blocksUntilIndent(header.Indent)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, &Tab{
			Span:   Span{StartLine: header.Line, LimitLine: p.current().Line},
			Title:  title,
			Blocks: body,
		})
	}

	return &TabBlock{
		Span: Span{StartLine: tabs[0].StartLine, LimitLine: tabs[len(tabs)-1].LimitLine},
		Tabs: tabs,
	}, nil
}

func (p *parser) parseHTMLBlock() *HTMLBlock {
	first := p.advance()
	lines := []string{strings.Repeat(" ", first.Indent) + first.Value}
	for p.check(TokenHTMLTag) {
		tok := p.advance()
		lines = append(lines, strings.Repeat(" ", tok.Indent)+tok.Value)
	}
	return &HTMLBlock{
		Span:    Span{StartLine: first.Line, LimitLine: p.current().Line},
		Content: strings.Join(lines, "\n"),
	}
}

// parseConditionalBlock collects blocks until the closing ::: regardless of
// indentation. Unlike other containers the body is not indent-scoped.
func (p *parser) parseConditionalBlock() (*ConditionalBlock, error) {
	open := p.advance()
	language := strings.TrimSpace(strings.TrimPrefix(open.Value, conditionalMarker))
	if !conditionalLanguages[language] {
		return nil, errorAt(ErrStructural, open,
			fmt.Sprintf("Invalid conditional block language: %s", language),
			"':::python' or ':::js'", fmt.Sprintf("':::%s'", language))
	}

	var blocks []Node
	for !p.check(TokenConditionalClose) {
		if p.check(TokenEOF) {
			return nil, errorAt(ErrUnterminated, open,
				fmt.Sprintf("Missing closing tag ':::' for conditional block starting at line %d", open.Line),
				"closing tag ':::'", "end of file")
		}
		if p.match(TokenBlank) {
			continue
		}
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	closing := p.advance()

	return &ConditionalBlock{
		Span:     Span{StartLine: open.Line, LimitLine: closing.Line + 1},
		Language: language,
		Indent:   open.Indent,
		Blocks:   blocks,
	}, nil
}

// parseParagraph collects consecutive text lines and swallows the blank lines
// that follow them.
func (p *parser) parseParagraph() (*Paragraph, error) {
	first := p.current()
	if first.Kind != TokenText {
		return nil, unexpectedToken(first)
	}

	var lines []string
	for p.check(TokenText) {
		lines = append(lines, p.advance().Value)
	}
	for p.match(TokenBlank) {
	}

	return &Paragraph{
		Span:  Span{StartLine: first.Line, LimitLine: p.current().Line},
		Lines: lines,
	}, nil
}

// unexpectedToken reports a token that cannot start a block at its position.
func unexpectedToken(tok Token) *ParseError {
	switch tok.Kind {
	case TokenFrontMatter:
		return errorAt(ErrStructural, tok,
			"Unexpected front matter token",
			"front matter only at the start of the document",
			"front matter delimiter '---'")
	case TokenConditionalClose:
		return errorAt(ErrStructural, tok,
			"Unexpected conditional block close token",
			"an open conditional block",
			"conditional block close ':::'")
	default:
		return errorAt(ErrStructural, tok,
			fmt.Sprintf("Unexpected %s token", strings.ToLower(strings.ReplaceAll(tok.Kind.String(), "_", " "))),
			"a block", tok.Kind.String())
	}
}

// splitFields splits s on whitespace into at most n fields; the last field
// keeps the remainder of the line.
func splitFields(s string, n int) []string {
	var fields []string
	rest := strings.TrimSpace(s)
	for rest != "" && len(fields) < n-1 {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			break
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	if rest != "" {
		fields = append(fields, rest)
	}
	return fields
}

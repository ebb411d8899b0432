// printer.go renders a Document as Mintlify markdown.
package md

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const indentUnit = "  "

// calloutNames maps !!! admonition kinds to Mintlify callout components.
var calloutNames = map[string]string{
	"note":      "Note",
	"warning":   "Warning",
	"info":      "Info",
	"tip":       "Tip",
	"danger":    "Danger",
	"important": "Warning",
}

// Admonition tags.
const (
	tagCallout      = "!!!"
	tagFoldable     = "???"
	tagFoldableOpen = "???+"
)

// Print renders doc. The first heading in the document becomes a front matter
// title; every later heading is printed with its anchor as an <a id> tag.
func Print(doc *Document) (string, error) {
	p := &printer{}
	if err := doc.Accept(p); err != nil {
		return "", err
	}
	return strings.TrimRight(strings.Join(p.out, "\n"), " \t\r\n") + "\n", nil
}

// printer accumulates output lines for a single Print call.
type printer struct {
	out         []string
	depth       int
	seenHeading bool
}

// line appends s at the current depth. Empty lines are never indented.
func (p *printer) line(s string) {
	if s == "" {
		p.out = append(p.out, "")
		return
	}
	p.out = append(p.out, strings.Repeat(indentUnit, p.depth)+s)
}

// blocks prints a block sequence with one blank line between blocks that
// produce output.
func (p *printer) blocks(nodes []Node) error {
	emitted := false
	for _, n := range nodes {
		mark := len(p.out)
		if emitted {
			p.line("")
		}
		if err := n.Accept(p); err != nil {
			return err
		}
		switch {
		case emitted && len(p.out) == mark+1:
			p.out = p.out[:mark]
		case len(p.out) > mark:
			emitted = true
		}
	}
	return nil
}

// nested prints nodes one level deeper.
func (p *printer) nested(nodes []Node) error {
	p.depth++
	defer func() { p.depth-- }()
	return p.blocks(nodes)
}

func (p *printer) VisitDocument(n *Document) error {
	return p.blocks(n.Blocks)
}

func (p *printer) VisitHeading(n *Heading) error {
	text, anchor := SplitAnchor(n.Text)

	if !p.seenHeading {
		p.seenHeading = true
		fm, err := yaml.Marshal(struct {
			Title string `yaml:"title"`
		}{Title: text})
		if err != nil {
			return fmt.Errorf("failed to encode title at line %d: %w", n.StartLine, err)
		}
		p.line(frontMatterMarker)
		for _, l := range strings.Split(strings.TrimRight(string(fm), "\n"), "\n") {
			p.line(l)
		}
		p.line(frontMatterMarker)
		return nil
	}

	if anchor != "" {
		p.line(fmt.Sprintf(`<a id="%s"></a>`, anchor))
	}
	p.line(strings.Repeat("#", n.Level) + " " + text)
	return nil
}

func (p *printer) VisitParagraph(n *Paragraph) error {
	for _, l := range n.Lines {
		p.line(strings.TrimSpace(l))
	}
	return nil
}

func (p *printer) VisitCodeBlock(n *CodeBlock) error {
	fence := fenceMarker
	if n.Language != "" {
		fence += n.Language
		if n.Meta != "" {
			fence += " " + n.Meta
		}
	}
	p.line(fence)
	if n.Content != "" {
		for _, l := range strings.Split(n.Content, "\n") {
			p.line(l)
		}
	}
	p.line(fenceMarker)
	return nil
}

func (p *printer) VisitListItem(n *ListItem) error {
	return fmt.Errorf("md: list item at line %d printed outside its list", n.StartLine)
}

func (p *printer) VisitUnorderedList(n *UnorderedList) error {
	for _, item := range n.Items {
		if err := p.listItem(item, "*"); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) VisitOrderedList(n *OrderedList) error {
	for i, item := range n.Items {
		if err := p.listItem(item, strconv.Itoa(i+1)+"."); err != nil {
			return err
		}
	}
	return nil
}

// listItem prints the marker line, folding a leading paragraph onto it, and
// indents every other block one level.
func (p *printer) listItem(item *ListItem, marker string) error {
	rest := item.Blocks
	if len(rest) > 0 {
		if para, ok := rest[0].(*Paragraph); ok {
			p.line(marker + " " + joinTrimmed(para.Lines))
			rest = rest[1:]
		} else {
			p.line(marker)
		}
	} else {
		p.line(marker)
	}

	p.depth++
	defer func() { p.depth-- }()
	for _, b := range rest {
		if err := b.Accept(p); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) VisitQuoteBlock(n *QuoteBlock) error {
	for _, l := range n.Lines {
		if l == "" {
			p.line(">")
			continue
		}
		p.line("> " + l)
	}
	return nil
}

func (p *printer) VisitTab(n *Tab) error {
	return fmt.Errorf("md: tab %q at line %d printed outside its tab block", n.Title, n.StartLine)
}

func (p *printer) VisitTabBlock(n *TabBlock) error {
	p.line("<Tabs>")
	p.depth++
	for _, tab := range n.Tabs {
		// Backtick highlighting in titles has no meaning in the target dialect.
		p.line(fmt.Sprintf(`<Tab title="%s">`, strings.Trim(tab.Title, "`")))
		if err := p.nested(tab.Blocks); err != nil {
			return err
		}
		p.line("</Tab>")
	}
	p.depth--
	p.line("</Tabs>")
	return nil
}

func (p *printer) VisitAdmonition(n *Admonition) error {
	switch n.Tag {
	case tagFoldable, tagFoldableOpen:
		open := "<Accordion"
		if n.Title != "" {
			open += fmt.Sprintf(` title="%s"`, n.Title)
		}
		if n.Tag == tagFoldableOpen {
			open += " defaultOpen"
		}
		p.line(open + ">")
		if err := p.nested(n.Blocks); err != nil {
			return err
		}
		p.line("</Accordion>")
		return nil

	case tagCallout:
		callout, ok := calloutNames[n.Kind]
		if !ok {
			return &ParseError{
				Kind:     ErrUnsupported,
				Message:  fmt.Sprintf("Unsupported admonition kind: %s", n.Kind),
				Line:     n.StartLine,
				Expected: "one of " + strings.Join(calloutKinds(), ", "),
				Found:    fmt.Sprintf("'%s'", n.Kind),
			}
		}
		p.line("<" + callout + ">")
		p.depth++
		if n.Title != "" {
			p.line("**" + n.Title + "**")
		}
		err := p.blocks(n.Blocks)
		p.depth--
		if err != nil {
			return err
		}
		p.line("</" + callout + ">")
		return nil

	default:
		return &ParseError{
			Kind:     ErrUnsupported,
			Message:  fmt.Sprintf("Unsupported admonition tag: %s", n.Tag),
			Line:     n.StartLine,
			Expected: "'!!!', '???' or '???+'",
			Found:    fmt.Sprintf("'%s'", n.Tag),
		}
	}
}

func (p *printer) VisitFrontMatter(*FrontMatter) error {
	return nil
}

func (p *printer) VisitHTMLBlock(n *HTMLBlock) error {
	for _, l := range strings.Split(n.Content, "\n") {
		if strings.TrimSpace(l) == "" {
			p.line("")
			continue
		}
		p.line(l)
	}
	return nil
}

func (p *printer) VisitConditionalBlock(n *ConditionalBlock) error {
	p.line(conditionalMarker + n.Language)
	if err := p.blocks(n.Blocks); err != nil {
		return err
	}
	p.line(conditionalMarker)
	return nil
}

func joinTrimmed(lines []string) string {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}
	return strings.Join(trimmed, " ")
}

// calloutKinds returns the admonition kinds with a callout mapping, sorted.
func calloutKinds() []string {
	kinds := make([]string, 0, len(calloutNames))
	for k := range calloutNames {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

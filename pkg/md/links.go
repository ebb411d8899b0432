// links.go rewrites and extracts links in document text.
package md

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultLinkSuffixes are the source file extensions dropped from relative links.
var DefaultLinkSuffixes = []string{".md", ".mdx"}

// [label](url) or [label](url#anchor)
var linkPattern = regexp.MustCompile(`(\[[^\]]+\])\(([^)\s#]+)(#[^)\s]*)?\)`)

// inlineParser parses paragraph text to find links. Block structure is
// already known from our own parser, so only inline syntax matters here.
var inlineParser = goldmark.New()

// LinkChange records one rewritten link target.
type LinkChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Link is a link destination found in a document.
type Link struct {
	Destination string `json:"destination"`
	Line        int    `json:"line"`
}

// DropLinkSuffixes removes the first matching suffix from every relative link
// target in source. External, mailto, absolute and in-page links are left as
// they are. The rewritten text and the list of changes are returned; the text
// is unchanged when the list is empty.
func DropLinkSuffixes(source string, suffixes ...string) (string, []LinkChange) {
	if len(suffixes) == 0 {
		suffixes = DefaultLinkSuffixes
	}
	return RewriteLinks(source, func(target string) (string, bool) {
		for _, suffix := range suffixes {
			if strings.HasSuffix(target, suffix) {
				return strings.TrimSuffix(target, suffix), true
			}
		}
		return target, false
	})
}

// RewriteLinks calls fn with the target of every relative link in source,
// anchor removed, and substitutes the target fn returns when it reports a
// change. The anchor is kept. Non-relative links are never passed to fn.
func RewriteLinks(source string, fn func(target string) (string, bool)) (string, []LinkChange) {
	var changes []LinkChange
	out := linkPattern.ReplaceAllStringFunc(source, func(match string) string {
		m := linkPattern.FindStringSubmatch(match)
		label, url, anchor := m[1], m[2], m[3]
		if !IsRelativeLink(url) {
			return match
		}
		next, ok := fn(url)
		if !ok || next == url {
			return match
		}
		changes = append(changes, LinkChange{Old: url + anchor, New: next + anchor})
		return label + "(" + next + anchor + ")"
	})
	if len(changes) == 0 {
		return source, nil
	}
	return out, changes
}

// IsRelativeLink reports whether url points at another file in the same tree.
func IsRelativeLink(url string) bool {
	if url == "" || strings.HasPrefix(url, "#") || strings.HasPrefix(url, "/") {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "mailto:"} {
		if strings.HasPrefix(url, scheme) {
			return false
		}
	}
	return true
}

// ExtractLinks returns the link destinations found in the text blocks of doc
// (paragraphs, list items, quotes and container bodies), in source order.
// Code, HTML and front matter are not searched.
func ExtractLinks(doc *Document) ([]Link, error) {
	c := &linkCollector{}
	if err := doc.Accept(c); err != nil {
		return nil, err
	}
	return c.links, nil
}

// linkCollector walks the tree and runs goldmark's inline parser over text
// lines.
type linkCollector struct {
	links []Link
}

func (c *linkCollector) each(nodes []Node) error {
	for _, n := range nodes {
		if err := n.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *linkCollector) scan(lines []string, startLine int) {
	src := []byte(strings.Join(lines, "\n"))
	root := inlineParser.Parser().Parse(text.NewReader(src))
	_ = gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		link, ok := n.(*gast.Link)
		if !ok {
			return gast.WalkContinue, nil
		}
		line := startLine
		if t, ok := link.FirstChild().(*gast.Text); ok {
			line += strings.Count(string(src[:t.Segment.Start]), "\n")
		}
		c.links = append(c.links, Link{Destination: string(link.Destination), Line: line})
		return gast.WalkSkipChildren, nil
	})
}

func (c *linkCollector) VisitDocument(n *Document) error { return c.each(n.Blocks) }
func (c *linkCollector) VisitHeading(n *Heading) error {
	c.scan([]string{n.Text}, n.StartLine)
	return nil
}
func (c *linkCollector) VisitParagraph(n *Paragraph) error {
	c.scan(n.Lines, n.StartLine)
	return nil
}
func (c *linkCollector) VisitCodeBlock(*CodeBlock) error { return nil }
func (c *linkCollector) VisitListItem(n *ListItem) error { return c.each(n.Blocks) }
func (c *linkCollector) VisitUnorderedList(n *UnorderedList) error {
	for _, item := range n.Items {
		if err := item.Accept(c); err != nil {
			return err
		}
	}
	return nil
}
func (c *linkCollector) VisitOrderedList(n *OrderedList) error {
	for _, item := range n.Items {
		if err := item.Accept(c); err != nil {
			return err
		}
	}
	return nil
}
func (c *linkCollector) VisitQuoteBlock(n *QuoteBlock) error {
	c.scan(n.Lines, n.StartLine)
	return nil
}
func (c *linkCollector) VisitTab(n *Tab) error { return c.each(n.Blocks) }
func (c *linkCollector) VisitTabBlock(n *TabBlock) error {
	for _, tab := range n.Tabs {
		if err := tab.Accept(c); err != nil {
			return err
		}
	}
	return nil
}
func (c *linkCollector) VisitAdmonition(n *Admonition) error            { return c.each(n.Blocks) }
func (c *linkCollector) VisitFrontMatter(*FrontMatter) error            { return nil }
func (c *linkCollector) VisitHTMLBlock(*HTMLBlock) error                { return nil }
func (c *linkCollector) VisitConditionalBlock(n *ConditionalBlock) error { return c.each(n.Blocks) }

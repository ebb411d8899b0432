// ast.go defines the block-level syntax tree built by the parser.
package md

// Span is the source line range of a node. LimitLine is exclusive: it is the
// first line after the node.
type Span struct {
	StartLine int `json:"start_line"`
	LimitLine int `json:"limit_line"`
}

// Pos returns the span itself so every node satisfies Node through embedding.
func (s Span) Pos() Span { return s }

// Node is implemented by every syntax tree variant. The set of variants is
// closed: Visitor has one method per node type.
type Node interface {
	Pos() Span
	Accept(v Visitor) error
}

// Visitor walks the syntax tree. Implementations must handle every variant.
type Visitor interface {
	VisitDocument(n *Document) error
	VisitHeading(n *Heading) error
	VisitParagraph(n *Paragraph) error
	VisitCodeBlock(n *CodeBlock) error
	VisitListItem(n *ListItem) error
	VisitUnorderedList(n *UnorderedList) error
	VisitOrderedList(n *OrderedList) error
	VisitQuoteBlock(n *QuoteBlock) error
	VisitTab(n *Tab) error
	VisitTabBlock(n *TabBlock) error
	VisitAdmonition(n *Admonition) error
	VisitFrontMatter(n *FrontMatter) error
	VisitHTMLBlock(n *HTMLBlock) error
	VisitConditionalBlock(n *ConditionalBlock) error
}

// Document is the root node holding top-level blocks.
type Document struct {
	Span
	Blocks []Node
}

// Heading is an ATX heading. Text keeps any anchor syntax verbatim.
type Heading struct {
	Span
	Level int
	Text  string
}

// Paragraph is a run of consecutive text lines.
type Paragraph struct {
	Span
	Lines []string
}

// CodeBlock is a fenced code block. An empty Language means none was given.
type CodeBlock struct {
	Span
	Language string
	Meta     string
	Content  string
}

// ListItem is one bullet or numbered item and its nested blocks.
type ListItem struct {
	Span
	Blocks []Node
}

// UnorderedList is a bullet list (-, *, +).
type UnorderedList struct {
	Span
	Items []*ListItem
}

// OrderedList is a numbered list; source numbers are not kept.
type OrderedList struct {
	Span
	Items []*ListItem
}

// QuoteBlock holds blockquote lines with their markers stripped.
type QuoteBlock struct {
	Span
	Lines []string
}

// Tab is one pane of a TabBlock.
type Tab struct {
	Span
	Title  string
	Blocks []Node
}

// TabBlock groups consecutive tabs.
type TabBlock struct {
	Span
	Tabs []*Tab
}

// Admonition is a !!! callout or a ??? foldable block.
type Admonition struct {
	Span
	Tag    string // "!!!", "???" or "???+"
	Kind   string // lower case, "note" when absent
	Title  string
	Blocks []Node
}

// FrontMatter is the raw content between the leading --- delimiters.
type FrontMatter struct {
	Span
	Content string
}

// HTMLBlock is a run of raw tag lines at their original indentation.
type HTMLBlock struct {
	Span
	Content string
}

// ConditionalBlock is a :::lang ... ::: region kept as-is in the output.
type ConditionalBlock struct {
	Span
	Language string
	Indent   int
	Blocks   []Node
}

func (n *Document) Accept(v Visitor) error         { return v.VisitDocument(n) }
func (n *Heading) Accept(v Visitor) error          { return v.VisitHeading(n) }
func (n *Paragraph) Accept(v Visitor) error        { return v.VisitParagraph(n) }
func (n *CodeBlock) Accept(v Visitor) error        { return v.VisitCodeBlock(n) }
func (n *ListItem) Accept(v Visitor) error         { return v.VisitListItem(n) }
func (n *UnorderedList) Accept(v Visitor) error    { return v.VisitUnorderedList(n) }
func (n *OrderedList) Accept(v Visitor) error      { return v.VisitOrderedList(n) }
func (n *QuoteBlock) Accept(v Visitor) error       { return v.VisitQuoteBlock(n) }
func (n *Tab) Accept(v Visitor) error              { return v.VisitTab(n) }
func (n *TabBlock) Accept(v Visitor) error         { return v.VisitTabBlock(n) }
func (n *Admonition) Accept(v Visitor) error       { return v.VisitAdmonition(n) }
func (n *FrontMatter) Accept(v Visitor) error      { return v.VisitFrontMatter(n) }
func (n *HTMLBlock) Accept(v Visitor) error        { return v.VisitHTMLBlock(n) }
func (n *ConditionalBlock) Accept(v Visitor) error { return v.VisitConditionalBlock(n) }

// Package mdast defines the document tree that queries run against: an
// ordered, addressable set of typed blocks with nested inline spans.
package mdast

import (
	"strconv"
	"strings"
)

// BlockKind identifies the concrete type of a Block.
type BlockKind string

const (
	KindSection       BlockKind = "section"
	KindParagraph     BlockKind = "paragraph"
	KindList          BlockKind = "list"
	KindListItem      BlockKind = "list_item"
	KindCodeBlock     BlockKind = "code_block"
	KindBlockquote    BlockKind = "blockquote"
	KindHTMLBlock     BlockKind = "html_block"
	KindTable         BlockKind = "table"
	KindThematicBreak BlockKind = "thematic_break"
	KindFootnoteDef   BlockKind = "footnote_def"
	KindFrontMatter   BlockKind = "front_matter"
)

// Node is anything a query can address: any Block, or an inline *Link.
type Node interface {
	node()
}

// Block is a typed node in the document tree. Block order is document order
// and does not change after parsing.
type Block interface {
	Node
	Kind() BlockKind

	// ID is the block's positional identifier: the dotted path of child
	// indexes from the document root, e.g. "2.0.1". Assigned once at parse.
	ID() string

	// Children returns the block's nested blocks, if any.
	Children() []Block

	setID(string)
}

type baseBlock struct {
	id string
}

func (b *baseBlock) ID() string      { return b.id }
func (b *baseBlock) setID(id string) { b.id = id }
func (b *baseBlock) node()           {}

// Document is the root of a parsed markdown document.
type Document struct {
	Blocks      []Block
	FrontMatter *FrontMatter
	Footnotes   []*FootnoteDef

	// UnresolvedRefs lists footnote labels referenced in the document body
	// that have no matching definition, in document order.
	UnresolvedRefs []string
}

// Footnote returns the definition for label, or nil.
func (d *Document) Footnote(label string) *FootnoteDef {
	for _, fn := range d.Footnotes {
		if fn.Label == label {
			return fn
		}
	}
	return nil
}

// BlockCount returns the total number of blocks in the tree, nested blocks
// and footnote definitions included.
func (d *Document) BlockCount() int {
	n := 0
	var count func(blocks []Block)
	count = func(blocks []Block) {
		for _, b := range blocks {
			n++
			count(b.Children())
		}
	}
	count(d.Blocks)
	for _, fn := range d.Footnotes {
		n++
		count(fn.Blocks)
	}
	if d.FrontMatter != nil {
		n++
	}
	return n
}

// Section is a heading together with every block up to the next heading of
// equal or higher rank.
type Section struct {
	baseBlock
	Level  int
	Title  []Inline
	Blocks []Block
}

func (s *Section) Kind() BlockKind   { return KindSection }
func (s *Section) Children() []Block { return s.Blocks }

// TitleText returns the heading title as plain text.
func (s *Section) TitleText() string { return SpansText(s.Title) }

// Paragraph is a run of inline spans.
type Paragraph struct {
	baseBlock
	Spans []Inline
}

func (p *Paragraph) Kind() BlockKind   { return KindParagraph }
func (p *Paragraph) Children() []Block { return nil }

// List is an ordered or unordered list of items.
type List struct {
	baseBlock
	Ordered bool
	Start   int
	Items   []*ListItem
}

func (l *List) Kind() BlockKind { return KindList }

func (l *List) Children() []Block {
	blocks := make([]Block, len(l.Items))
	for i, it := range l.Items {
		blocks[i] = it
	}
	return blocks
}

// ListItem is a single list entry. Task is nil for plain items, otherwise it
// reports the checkbox state.
type ListItem struct {
	baseBlock
	Ordered bool
	Depth   int
	Task    *bool
	Spans   []Inline
	Blocks  []Block
}

func (li *ListItem) Kind() BlockKind   { return KindListItem }
func (li *ListItem) Children() []Block { return li.Blocks }

// Text returns the item's own text, nested blocks excluded.
func (li *ListItem) Text() string { return SpansText(li.Spans) }

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	baseBlock
	Language string
	Content  string
	Fenced   bool
}

func (c *CodeBlock) Kind() BlockKind   { return KindCodeBlock }
func (c *CodeBlock) Children() []Block { return nil }

// Blockquote wraps nested blocks.
type Blockquote struct {
	baseBlock
	Blocks []Block
}

func (b *Blockquote) Kind() BlockKind   { return KindBlockquote }
func (b *Blockquote) Children() []Block { return b.Blocks }

// HTMLBlock is a raw HTML block, kept verbatim.
type HTMLBlock struct {
	baseBlock
	Content string
}

func (h *HTMLBlock) Kind() BlockKind   { return KindHTMLBlock }
func (h *HTMLBlock) Children() []Block { return nil }

// TableCell is one cell of a table row or header.
type TableCell struct {
	Spans []Inline
}

// Text returns the cell content as plain text.
func (c *TableCell) Text() string { return SpansText(c.Spans) }

// Table is a GFM pipe table.
type Table struct {
	baseBlock
	Header     []*TableCell
	Rows       [][]*TableCell
	Alignments []string
}

func (t *Table) Kind() BlockKind   { return KindTable }
func (t *Table) Children() []Block { return nil }

// ThematicBreak is a horizontal rule.
type ThematicBreak struct {
	baseBlock
}

func (t *ThematicBreak) Kind() BlockKind   { return KindThematicBreak }
func (t *ThematicBreak) Children() []Block { return nil }

// FootnoteDef is a footnote definition (`[^label]: ...`).
type FootnoteDef struct {
	baseBlock
	Label  string
	Blocks []Block
}

func (f *FootnoteDef) Kind() BlockKind   { return KindFootnoteDef }
func (f *FootnoteDef) Children() []Block { return f.Blocks }

// FrontMatter is the document's front matter, when present. Raw holds the
// text between the delimiters; Fields the decoded key/value pairs.
type FrontMatter struct {
	baseBlock
	Format string // "yaml" or "toml"
	Raw    string
	Fields map[string]any
}

func (f *FrontMatter) Kind() BlockKind   { return KindFrontMatter }
func (f *FrontMatter) Children() []Block { return nil }

// Inline is a span within a text-bearing block.
type Inline interface {
	inline()
}

// Text is a literal text span.
type Text struct {
	Content string
}

// Link is a hyperlink or image.
type Link struct {
	Spans []Inline
	URL   string
	Title string
	Image bool
}

// Text returns the link's display text.
func (l *Link) Text() string { return SpansText(l.Spans) }

func (l *Link) node() {}

// CodeSpan is inline code.
type CodeSpan struct {
	Content string
}

// Emphasis is emphasized text; Level 1 renders as *em*, 2 as **strong**.
type Emphasis struct {
	Level int
	Spans []Inline
}

// Strikethrough is GFM struck-through text.
type Strikethrough struct {
	Spans []Inline
}

// FootnoteRef is a reference to a footnote definition.
type FootnoteRef struct {
	Label string
}

// RawHTML is an inline HTML fragment.
type RawHTML struct {
	Content string
}

// Break is a line break inside a paragraph; Hard marks an explicit break.
type Break struct {
	Hard bool
}

func (*Text) inline()          {}
func (*Link) inline()          {}
func (*CodeSpan) inline()      {}
func (*Emphasis) inline()      {}
func (*Strikethrough) inline() {}
func (*FootnoteRef) inline()   {}
func (*RawHTML) inline()       {}
func (*Break) inline()         {}

// SpansText flattens inline spans to plain text. Line breaks collapse to a
// single space.
func SpansText(spans []Inline) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s := s.(type) {
		case *Text:
			sb.WriteString(s.Content)
		case *Link:
			sb.WriteString(SpansText(s.Spans))
		case *CodeSpan:
			sb.WriteString(s.Content)
		case *Emphasis:
			sb.WriteString(SpansText(s.Spans))
		case *Strikethrough:
			sb.WriteString(SpansText(s.Spans))
		case *FootnoteRef:
			sb.WriteString("[^" + s.Label + "]")
		case *RawHTML:
			sb.WriteString(s.Content)
		case *Break:
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

// BlockText flattens a block and its children to plain text, one line per
// nested block. Used for text matching, not for output.
func BlockText(b Block) string {
	var lines []string
	var collect func(b Block)
	collect = func(b Block) {
		switch b := b.(type) {
		case *Section:
			lines = append(lines, strings.TrimSpace(b.TitleText()))
			for _, c := range b.Blocks {
				collect(c)
			}
		case *Paragraph:
			lines = append(lines, strings.TrimSpace(SpansText(b.Spans)))
		case *List:
			for _, it := range b.Items {
				collect(it)
			}
		case *ListItem:
			lines = append(lines, strings.TrimSpace(b.Text()))
			for _, c := range b.Blocks {
				collect(c)
			}
		case *CodeBlock:
			lines = append(lines, b.Content)
		case *Blockquote:
			for _, c := range b.Blocks {
				collect(c)
			}
		case *HTMLBlock:
			lines = append(lines, b.Content)
		case *Table:
			for _, cell := range b.Header {
				lines = append(lines, strings.TrimSpace(cell.Text()))
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					lines = append(lines, strings.TrimSpace(cell.Text()))
				}
			}
		case *FootnoteDef:
			for _, c := range b.Blocks {
				collect(c)
			}
		case *FrontMatter:
			lines = append(lines, b.Raw)
		}
	}
	collect(b)
	return strings.Join(lines, "\n")
}

// CollectLinks returns every link and image span under b, in document order.
func CollectLinks(b Block) []*Link {
	var links []*Link
	var fromSpans func(spans []Inline)
	fromSpans = func(spans []Inline) {
		for _, sp := range spans {
			switch sp := sp.(type) {
			case *Link:
				links = append(links, sp)
				fromSpans(sp.Spans)
			case *Emphasis:
				fromSpans(sp.Spans)
			case *Strikethrough:
				fromSpans(sp.Spans)
			}
		}
	}
	var walk func(b Block)
	walk = func(b Block) {
		switch b := b.(type) {
		case *Section:
			fromSpans(b.Title)
		case *Paragraph:
			fromSpans(b.Spans)
		case *ListItem:
			fromSpans(b.Spans)
		case *Table:
			for _, cell := range b.Header {
				fromSpans(cell.Spans)
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					fromSpans(cell.Spans)
				}
			}
		}
		for _, c := range b.Children() {
			walk(c)
		}
	}
	walk(b)
	return links
}

// CollectFootnoteRefs returns the labels of all footnote references under b.
func CollectFootnoteRefs(b Block) []string {
	var labels []string
	var fromSpans func(spans []Inline)
	fromSpans = func(spans []Inline) {
		for _, sp := range spans {
			switch sp := sp.(type) {
			case *FootnoteRef:
				labels = append(labels, sp.Label)
			case *Link:
				fromSpans(sp.Spans)
			case *Emphasis:
				fromSpans(sp.Spans)
			case *Strikethrough:
				fromSpans(sp.Spans)
			}
		}
	}
	var walk func(b Block)
	walk = func(b Block) {
		switch b := b.(type) {
		case *Section:
			fromSpans(b.Title)
		case *Paragraph:
			fromSpans(b.Spans)
		case *ListItem:
			fromSpans(b.Spans)
		case *Table:
			for _, cell := range b.Header {
				fromSpans(cell.Spans)
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					fromSpans(cell.Spans)
				}
			}
		}
		for _, c := range b.Children() {
			walk(c)
		}
	}
	walk(b)
	return labels
}

// assignIDs gives every block its positional identifier.
func assignIDs(doc *Document) {
	var walk func(blocks []Block, prefix string)
	walk = func(blocks []Block, prefix string) {
		for i, b := range blocks {
			id := strconv.Itoa(i)
			if prefix != "" {
				id = prefix + "." + id
			}
			b.setID(id)
			walk(b.Children(), id)
		}
	}
	walk(doc.Blocks, "")
	for i, fn := range doc.Footnotes {
		id := "fn." + strconv.Itoa(i)
		fn.setID(id)
		walk(fn.Blocks, id)
	}
	if doc.FrontMatter != nil {
		doc.FrontMatter.setID("fm")
	}
}

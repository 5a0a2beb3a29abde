package query

import (
	"github.com/arfbllh/mdq/internal/mdast"
)

// Selector is one stage of a selector chain. Select walks the subtree of each
// input node (the node itself included) and returns matches in walk order.
type Selector interface {
	Select(nodes []mdast.Node) []mdast.Node
}

// Chain is a parsed selector pipeline.
type Chain []Selector

// Find runs the chain against a document. The starting scope is the
// document's front matter (if any) followed by its top-level blocks; results
// are deduplicated and keep document order.
func (c Chain) Find(doc *mdast.Document) []mdast.Node {
	var nodes []mdast.Node
	if doc.FrontMatter != nil {
		nodes = append(nodes, doc.FrontMatter)
	}
	for _, b := range doc.Blocks {
		nodes = append(nodes, b)
	}

	for _, sel := range c {
		nodes = dedupe(sel.Select(nodes))
	}
	return nodes
}

func dedupe(nodes []mdast.Node) []mdast.Node {
	seen := make(map[mdast.Node]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// walkBlocks calls fn for b and every nested block, in document order.
func walkBlocks(b mdast.Block, fn func(mdast.Block)) {
	fn(b)
	for _, c := range b.Children() {
		walkBlocks(c, fn)
	}
}

// eachBlock applies fn to the block subtree of every input node.
func eachBlock(nodes []mdast.Node, fn func(mdast.Block)) {
	for _, n := range nodes {
		if b, ok := n.(mdast.Block); ok {
			walkBlocks(b, fn)
		}
	}
}

// SectionSelector matches sections by heading title: `# Title`.
type SectionSelector struct {
	Title StringMatcher
}

func (s *SectionSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		if sec, ok := b.(*mdast.Section); ok && s.Title.Matches(sec.TitleText()) {
			out = append(out, sec)
		}
	})
	return out
}

// TaskFilter narrows list item selection by checkbox state.
type TaskFilter int

const (
	TaskAny       TaskFilter = iota // no checkbox requirement
	TaskUnchecked                   // [ ]
	TaskChecked                     // [x]
	TaskEither                      // [?]: any checkbox state, but must be a task
)

// ListItemSelector matches list items: `- text` or `1. text`, optionally
// filtered by task state.
type ListItemSelector struct {
	Ordered bool
	Task    TaskFilter
	Text    StringMatcher
}

func (s *ListItemSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		item, ok := b.(*mdast.ListItem)
		if !ok || item.Ordered != s.Ordered {
			return
		}
		switch s.Task {
		case TaskUnchecked:
			if item.Task == nil || *item.Task {
				return
			}
		case TaskChecked:
			if item.Task == nil || !*item.Task {
				return
			}
		case TaskEither:
			if item.Task == nil {
				return
			}
		}
		if s.Text.Matches(item.Text()) {
			out = append(out, item)
		}
	})
	return out
}

// LinkSelector matches links or images by display text and URL:
// `[text](url)` / `![alt](url)`.
type LinkSelector struct {
	Text  StringMatcher
	URL   StringMatcher
	Image bool
}

func (s *LinkSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	match := func(l *mdast.Link) {
		if l.Image == s.Image && s.Text.Matches(l.Text()) && s.URL.Matches(l.URL) {
			out = append(out, l)
		}
	}
	for _, n := range nodes {
		switch n := n.(type) {
		case *mdast.Link:
			match(n)
		case mdast.Block:
			for _, l := range mdast.CollectLinks(n) {
				match(l)
			}
		}
	}
	return out
}

// BlockquoteSelector matches blockquotes by contained text: `> text`.
type BlockquoteSelector struct {
	Text StringMatcher
}

func (s *BlockquoteSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		if bq, ok := b.(*mdast.Blockquote); ok && s.Text.Matches(mdast.BlockText(bq)) {
			out = append(out, bq)
		}
	})
	return out
}

// CodeBlockSelector matches fenced code blocks by language and content:
// ```` ```lang content ````.
type CodeBlockSelector struct {
	Language StringMatcher
	Content  StringMatcher
}

func (s *CodeBlockSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		cb, ok := b.(*mdast.CodeBlock)
		if !ok || !cb.Fenced {
			return
		}
		if s.Language.Matches(cb.Language) && s.Content.Matches(cb.Content) {
			out = append(out, cb)
		}
	})
	return out
}

// FrontMatterSelector matches the document front matter by format or raw
// text: `+++ toml`.
type FrontMatterSelector struct {
	Text StringMatcher
}

func (s *FrontMatterSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	for _, n := range nodes {
		fm, ok := n.(*mdast.FrontMatter)
		if !ok {
			continue
		}
		if s.Text.Matches(fm.Format) || s.Text.Matches(fm.Raw) {
			out = append(out, fm)
		}
	}
	return out
}

// HTMLSelector matches raw HTML blocks by text: `</> <div>`.
type HTMLSelector struct {
	Text StringMatcher
}

func (s *HTMLSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		if h, ok := b.(*mdast.HTMLBlock); ok && s.Text.Matches(h.Content) {
			out = append(out, h)
		}
	})
	return out
}

// ParagraphSelector matches paragraphs by text: `P: text`.
type ParagraphSelector struct {
	Text StringMatcher
}

func (s *ParagraphSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		if p, ok := b.(*mdast.Paragraph); ok && s.Text.Matches(mdast.SpansText(p.Spans)) {
			out = append(out, p)
		}
	})
	return out
}

// TableSelector matches tables and projects them: columns whose header
// matches Column are kept, along with rows where any kept cell matches Row.
type TableSelector struct {
	Column StringMatcher
	Row    StringMatcher
}

func (s *TableSelector) Select(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	eachBlock(nodes, func(b mdast.Block) {
		t, ok := b.(*mdast.Table)
		if !ok {
			return
		}
		if projected := s.project(t); projected != nil {
			out = append(out, projected)
		}
	})
	return out
}

func (s *TableSelector) project(t *mdast.Table) *mdast.Table {
	var keep []int
	for i, cell := range t.Header {
		if s.Column.Matches(cell.Text()) {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil
	}

	// Fast path: nothing is filtered out, return the original node so its
	// positional ID survives.
	if len(keep) == len(t.Header) && s.Row.Any {
		return t
	}

	projected := &mdast.Table{}
	for _, i := range keep {
		projected.Header = append(projected.Header, t.Header[i])
		if i < len(t.Alignments) {
			projected.Alignments = append(projected.Alignments, t.Alignments[i])
		}
	}
	for _, row := range t.Rows {
		var cells []*mdast.TableCell
		matched := false
		for _, i := range keep {
			if i >= len(row) {
				continue
			}
			cells = append(cells, row[i])
			if s.Row.Matches(row[i].Text()) {
				matched = true
			}
		}
		if matched {
			projected.Rows = append(projected.Rows, cells)
		}
	}
	if len(projected.Rows) == 0 && !s.Row.Any {
		return nil
	}
	return projected
}

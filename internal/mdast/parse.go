package mdast

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parse converts markdown source into a Document. Front matter is split off
// first, the body goes through goldmark (GFM and footnotes enabled), and the
// resulting AST is folded into the section tree queries operate on.
func Parse(source []byte) (*Document, error) {
	fm, body, err := splitFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	root := md.Parser().Parse(text.NewReader(body))

	c := &converter{
		source:    body,
		footnotes: footnoteLabels(root),
	}

	var flat []Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*east.FootnoteList); ok {
			c.convertFootnoteList(list)
			continue
		}
		if b := c.convertBlock(n, 0); b != nil {
			flat = append(flat, b)
		}
	}

	doc := &Document{
		Blocks:      foldSections(flat),
		FrontMatter: fm,
		Footnotes:   c.defs,
	}
	doc.UnresolvedRefs = unresolvedRefs(doc)
	assignIDs(doc)
	return doc, nil
}

// splitFrontMatter separates leading YAML/TOML front matter from the body.
func splitFrontMatter(source []byte) (*FrontMatter, []byte, error) {
	var fields map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(source), &fields)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) == len(source) {
		return nil, source, nil
	}

	head := string(source[:len(source)-len(rest)])
	lines := strings.Split(strings.TrimRight(head, "\n"), "\n")
	format := "yaml"
	if strings.HasPrefix(strings.TrimSpace(lines[0]), "+++") {
		format = "toml"
	}
	raw := ""
	if len(lines) > 2 {
		raw = strings.Join(lines[1:len(lines)-1], "\n")
	}
	return &FrontMatter{Format: format, Raw: raw, Fields: fields}, rest, nil
}

type converter struct {
	source    []byte
	footnotes map[int]string // goldmark footnote index -> label
	defs      []*FootnoteDef
}

func footnoteLabels(root ast.Node) map[int]string {
	labels := make(map[int]string)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		list, ok := n.(*east.FootnoteList)
		if !ok {
			continue
		}
		for c := list.FirstChild(); c != nil; c = c.NextSibling() {
			if fn, ok := c.(*east.Footnote); ok {
				labels[fn.Index] = string(fn.Ref)
			}
		}
	}
	return labels
}

func (c *converter) convertFootnoteList(list *east.FootnoteList) {
	for n := list.FirstChild(); n != nil; n = n.NextSibling() {
		fn, ok := n.(*east.Footnote)
		if !ok {
			continue
		}
		def := &FootnoteDef{Label: string(fn.Ref)}
		for b := fn.FirstChild(); b != nil; b = b.NextSibling() {
			if cb := c.convertBlock(b, 0); cb != nil {
				def.Blocks = append(def.Blocks, cb)
			}
		}
		c.defs = append(c.defs, def)
	}
}

func (c *converter) convertBlock(n ast.Node, depth int) Block {
	switch n := n.(type) {
	case *ast.Heading:
		return &Section{Level: n.Level, Title: c.convertInlines(n)}
	case *ast.Paragraph:
		return &Paragraph{Spans: c.convertInlines(n)}
	case *ast.TextBlock:
		return &Paragraph{Spans: c.convertInlines(n)}
	case *ast.List:
		return c.convertList(n, depth)
	case *ast.FencedCodeBlock:
		lang := ""
		if l := n.Language(c.source); l != nil {
			lang = string(l)
		}
		return &CodeBlock{Language: lang, Content: linesValue(n, c.source), Fenced: true}
	case *ast.CodeBlock:
		return &CodeBlock{Content: linesValue(n, c.source)}
	case *ast.Blockquote:
		bq := &Blockquote{}
		for b := n.FirstChild(); b != nil; b = b.NextSibling() {
			if cb := c.convertBlock(b, depth); cb != nil {
				bq.Blocks = append(bq.Blocks, cb)
			}
		}
		return bq
	case *ast.HTMLBlock:
		content := linesValue(n, c.source)
		if n.HasClosure() {
			content += string(n.ClosureLine.Value(c.source))
		}
		return &HTMLBlock{Content: strings.TrimRight(content, "\n")}
	case *ast.ThematicBreak:
		return &ThematicBreak{}
	case *east.Table:
		return c.convertTable(n)
	default:
		return nil
	}
}

func (c *converter) convertList(n *ast.List, depth int) *List {
	list := &List{Ordered: n.IsOrdered(), Start: n.Start}
	for li := n.FirstChild(); li != nil; li = li.NextSibling() {
		item := &ListItem{Ordered: list.Ordered, Depth: depth}
		lineDone := false
		for b := li.FirstChild(); b != nil; b = b.NextSibling() {
			switch b.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				if !lineDone {
					item.Task, item.Spans = c.convertItemLine(b)
					lineDone = true
					continue
				}
			}
			if cb := c.convertBlock(b, depth+1); cb != nil {
				item.Blocks = append(item.Blocks, cb)
			}
		}
		list.Items = append(list.Items, item)
	}
	return list
}

// convertItemLine converts a list item's first line, peeling off a leading
// task checkbox when present.
func (c *converter) convertItemLine(n ast.Node) (*bool, []Inline) {
	var task *bool
	spans := c.convertInlinesFiltered(n, func(child ast.Node) bool {
		if cb, ok := child.(*east.TaskCheckBox); ok {
			checked := cb.IsChecked
			task = &checked
			return false
		}
		return true
	})
	// The checkbox is followed by a space in the source text.
	if task != nil && len(spans) > 0 {
		if t, ok := spans[0].(*Text); ok {
			t.Content = strings.TrimPrefix(t.Content, " ")
		}
	}
	return task, spans
}

func (c *converter) convertTable(n *east.Table) *Table {
	t := &Table{}
	for _, a := range n.Alignments {
		t.Alignments = append(t.Alignments, a.String())
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []*TableCell
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, &TableCell{Spans: c.convertInlines(cell)})
		}
		if _, ok := row.(*east.TableHeader); ok {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func (c *converter) convertInlines(n ast.Node) []Inline {
	return c.convertInlinesFiltered(n, nil)
}

func (c *converter) convertInlinesFiltered(n ast.Node, keep func(ast.Node) bool) []Inline {
	var spans []Inline
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if keep != nil && !keep(child) {
			continue
		}
		if sp := c.convertInline(child); sp != nil {
			spans = append(spans, sp...)
		}
	}
	return spans
}

func (c *converter) convertInline(n ast.Node) []Inline {
	switch n := n.(type) {
	case *ast.Text:
		spans := []Inline{&Text{Content: string(n.Segment.Value(c.source))}}
		if n.HardLineBreak() {
			spans = append(spans, &Break{Hard: true})
		} else if n.SoftLineBreak() {
			spans = append(spans, &Break{})
		}
		return spans
	case *ast.String:
		return []Inline{&Text{Content: string(n.Value)}}
	case *ast.CodeSpan:
		return []Inline{&CodeSpan{Content: nodeLiteral(n, c.source)}}
	case *ast.Emphasis:
		return []Inline{&Emphasis{Level: n.Level, Spans: c.convertInlines(n)}}
	case *east.Strikethrough:
		return []Inline{&Strikethrough{Spans: c.convertInlines(n)}}
	case *ast.Link:
		return []Inline{&Link{
			Spans: c.convertInlines(n),
			URL:   string(n.Destination),
			Title: string(n.Title),
		}}
	case *ast.Image:
		return []Inline{&Link{
			Spans: c.convertInlines(n),
			URL:   string(n.Destination),
			Title: string(n.Title),
			Image: true,
		}}
	case *ast.AutoLink:
		url := string(n.URL(c.source))
		return []Inline{&Link{
			Spans: []Inline{&Text{Content: string(n.Label(c.source))}},
			URL:   url,
		}}
	case *east.FootnoteLink:
		return []Inline{&FootnoteRef{Label: c.footnotes[n.Index]}}
	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(c.source))
		}
		return []Inline{&RawHTML{Content: sb.String()}}
	default:
		return nil
	}
}

// foldSections turns a flat block sequence into a tree where each section
// owns the blocks up to the next heading of equal or higher rank.
func foldSections(flat []Block) []Block {
	var out []Block
	var stack []*Section

	appendBlock := func(b Block) {
		if len(stack) == 0 {
			out = append(out, b)
			return
		}
		top := stack[len(stack)-1]
		top.Blocks = append(top.Blocks, b)
	}

	for _, b := range flat {
		sec, ok := b.(*Section)
		if !ok {
			appendBlock(b)
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].Level >= sec.Level {
			stack = stack[:len(stack)-1]
		}
		appendBlock(sec)
		stack = append(stack, sec)
	}
	return out
}

var footnoteMarkRe = regexp.MustCompile(`\[\^([^\]\s]+)\]`)

// unresolvedRefs finds footnote marks with no matching definition. A dangling
// reference survives parsing as literal text, so the scan runs over the text
// spans of the converted tree; code blocks, code spans, and raw HTML never
// produce false positives that way.
func unresolvedRefs(doc *Document) []string {
	defined := make(map[string]bool, len(doc.Footnotes))
	for _, d := range doc.Footnotes {
		defined[d.Label] = true
	}

	var unresolved []string
	seen := make(map[string]bool)
	scan := func(text string) {
		for _, m := range footnoteMarkRe.FindAllStringSubmatch(text, -1) {
			label := m[1]
			if seen[label] || defined[label] {
				continue
			}
			seen[label] = true
			unresolved = append(unresolved, label)
		}
	}
	for _, b := range doc.Blocks {
		scan(literalText(b))
	}
	for _, fn := range doc.Footnotes {
		scan(literalText(fn))
	}
	return unresolved
}

// literalText concatenates the plain text spans under b. Unlike BlockText it
// leaves out code blocks, code spans, and HTML, and joins the spans of each
// text run without separators so a mark split across spans still reads whole.
func literalText(b Block) string {
	var sb strings.Builder
	var fromSpans func(spans []Inline)
	fromSpans = func(spans []Inline) {
		for _, sp := range spans {
			switch sp := sp.(type) {
			case *Text:
				sb.WriteString(sp.Content)
			case *Link:
				fromSpans(sp.Spans)
			case *Emphasis:
				fromSpans(sp.Spans)
			case *Strikethrough:
				fromSpans(sp.Spans)
			case *FootnoteRef:
				// Already resolved by goldmark.
			case *Break:
				sb.WriteString("\n")
			}
		}
	}
	var walk func(b Block)
	walk = func(b Block) {
		switch b := b.(type) {
		case *Section:
			fromSpans(b.Title)
			sb.WriteString("\n")
		case *Paragraph:
			fromSpans(b.Spans)
			sb.WriteString("\n")
		case *ListItem:
			fromSpans(b.Spans)
			sb.WriteString("\n")
		case *Table:
			for _, cell := range b.Header {
				fromSpans(cell.Spans)
				sb.WriteString("\n")
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					fromSpans(cell.Spans)
					sb.WriteString("\n")
				}
			}
		}
		for _, c := range b.Children() {
			walk(c)
		}
	}
	walk(b)
	return sb.String()
}

func linesValue(n ast.Node, source []byte) string {
	var sb strings.Builder
	l := n.Lines()
	for i := 0; i < l.Len(); i++ {
		seg := l.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func nodeLiteral(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
		case *ast.String:
			sb.Write(c.Value)
		}
	}
	return sb.String()
}

// Package output renders query results in the supported formats: markdown,
// json, yaml, and plain text, plus a glamour-backed terminal renderer.
package output

import (
	"strconv"
	"strings"

	"github.com/arfbllh/mdq/internal/mdast"
)

// Markdown re-serializes the matched nodes as a markdown document. Nodes are
// separated by blank lines; footnote definitions referenced by the output are
// appended at the end.
func Markdown(doc *mdast.Document, nodes []mdast.Node) string {
	w := &mdWriter{doc: doc}

	var chunks []string
	for _, n := range nodes {
		switch n := n.(type) {
		case *mdast.Link:
			chunks = append(chunks, w.spanText(n))
		case mdast.Block:
			chunks = append(chunks, w.block(n))
		}
	}

	if defs := w.usedFootnotes(nodes); len(defs) > 0 {
		for _, def := range defs {
			chunks = append(chunks, w.block(def))
		}
	}

	out := strings.Join(chunks, "\n\n")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

type mdWriter struct {
	doc *mdast.Document
}

func (w *mdWriter) block(b mdast.Block) string {
	switch b := b.(type) {
	case *mdast.Section:
		parts := []string{strings.Repeat("#", b.Level) + " " + w.spans(b.Title)}
		for _, c := range b.Blocks {
			parts = append(parts, w.block(c))
		}
		return strings.Join(parts, "\n\n")

	case *mdast.Paragraph:
		return w.spans(b.Spans)

	case *mdast.List:
		var lines []string
		for i, item := range b.Items {
			lines = append(lines, w.listItem(item, w.marker(b, i)))
		}
		return strings.Join(lines, "\n")

	case *mdast.ListItem:
		marker := "-"
		if b.Ordered {
			marker = "1."
		}
		return w.listItem(b, marker)

	case *mdast.CodeBlock:
		content := b.Content
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return "```" + b.Language + "\n" + content + "```"

	case *mdast.Blockquote:
		var parts []string
		for _, c := range b.Blocks {
			parts = append(parts, w.block(c))
		}
		return prefixLines(strings.Join(parts, "\n\n"), "> ")

	case *mdast.HTMLBlock:
		return b.Content

	case *mdast.Table:
		return w.table(b)

	case *mdast.ThematicBreak:
		return "---"

	case *mdast.FootnoteDef:
		var parts []string
		for _, c := range b.Blocks {
			parts = append(parts, w.block(c))
		}
		body := strings.Join(parts, "\n\n")
		lines := strings.Split(body, "\n")
		out := "[^" + b.Label + "]: " + lines[0]
		for _, line := range lines[1:] {
			out += "\n    " + line
		}
		return out

	case *mdast.FrontMatter:
		delim := "---"
		if b.Format == "toml" {
			delim = "+++"
		}
		return delim + "\n" + b.Raw + "\n" + delim

	default:
		return ""
	}
}

func (w *mdWriter) marker(l *mdast.List, i int) string {
	if !l.Ordered {
		return "-"
	}
	start := l.Start
	if start == 0 {
		start = 1
	}
	return strconv.Itoa(start+i) + "."
}

func (w *mdWriter) listItem(item *mdast.ListItem, marker string) string {
	line := marker + " "
	if item.Task != nil {
		if *item.Task {
			line += "[x] "
		} else {
			line += "[ ] "
		}
	}
	line += w.spans(item.Spans)

	indent := strings.Repeat(" ", len(marker)+1)
	for _, c := range item.Blocks {
		line += "\n" + prefixLines(w.block(c), indent)
	}
	return line
}

func (w *mdWriter) table(t *mdast.Table) string {
	row := func(cells []*mdast.TableCell) string {
		var parts []string
		for _, c := range cells {
			parts = append(parts, w.spans(c.Spans))
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	var sb strings.Builder
	sb.WriteString(row(t.Header))
	sb.WriteString("\n|")
	for i := range t.Header {
		align := "none"
		if i < len(t.Alignments) {
			align = t.Alignments[i]
		}
		switch align {
		case "left":
			sb.WriteString(" :-- |")
		case "right":
			sb.WriteString(" --: |")
		case "center":
			sb.WriteString(" :-: |")
		default:
			sb.WriteString(" --- |")
		}
	}
	for _, r := range t.Rows {
		sb.WriteString("\n" + row(r))
	}
	return sb.String()
}

func (w *mdWriter) spans(spans []mdast.Inline) string {
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(w.spanText(sp))
	}
	return sb.String()
}

func (w *mdWriter) spanText(sp mdast.Inline) string {
	switch sp := sp.(type) {
	case *mdast.Text:
		return sp.Content
	case *mdast.CodeSpan:
		return "`" + sp.Content + "`"
	case *mdast.Emphasis:
		mark := "*"
		if sp.Level >= 2 {
			mark = "**"
		}
		return mark + w.spans(sp.Spans) + mark
	case *mdast.Strikethrough:
		return "~~" + w.spans(sp.Spans) + "~~"
	case *mdast.Link:
		prefix := ""
		if sp.Image {
			prefix = "!"
		}
		dest := sp.URL
		if sp.Title != "" {
			dest += " \"" + sp.Title + "\""
		}
		return prefix + "[" + w.spans(sp.Spans) + "](" + dest + ")"
	case *mdast.FootnoteRef:
		return "[^" + sp.Label + "]"
	case *mdast.RawHTML:
		return sp.Content
	case *mdast.Break:
		if sp.Hard {
			return "\\\n"
		}
		return " "
	default:
		return ""
	}
}

// usedFootnotes returns definitions for footnote references that appear in
// the output but whose definitions are not themselves part of it.
func (w *mdWriter) usedFootnotes(nodes []mdast.Node) []*mdast.FootnoteDef {
	if w.doc == nil {
		return nil
	}

	inOutput := make(map[mdast.Node]bool)
	for _, n := range nodes {
		inOutput[n] = true
	}

	var defs []*mdast.FootnoteDef
	seen := make(map[string]bool)
	for _, n := range nodes {
		b, ok := n.(mdast.Block)
		if !ok {
			continue
		}
		for _, label := range mdast.CollectFootnoteRefs(b) {
			if seen[label] {
				continue
			}
			seen[label] = true
			if def := w.doc.Footnote(label); def != nil && !inOutput[def] {
				defs = append(defs, def)
			}
		}
	}
	return defs
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" && i > 0 {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

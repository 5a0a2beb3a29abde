package output

import (
	"strings"

	"github.com/arfbllh/mdq/internal/mdast"
)

// Plain renders matches as bare text, one node per line. Links keep their
// destination in angle brackets; structured blocks collapse to their text.
func Plain(nodes []mdast.Node) string {
	var lines []string
	for _, n := range nodes {
		switch n := n.(type) {
		case *mdast.Link:
			text := mdast.SpansText(n.Spans)
			if text == "" {
				lines = append(lines, n.URL)
				continue
			}
			lines = append(lines, text+" <"+n.URL+">")
		case *mdast.CodeBlock:
			lines = append(lines, strings.TrimRight(n.Content, "\n"))
		case *mdast.FrontMatter:
			lines = append(lines, n.Raw)
		case mdast.Block:
			lines = append(lines, mdast.BlockText(n))
		}
	}
	out := strings.Join(lines, "\n")
	if out != "" {
		out += "\n"
	}
	return out
}

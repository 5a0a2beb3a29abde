package output

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/arfbllh/mdq/internal/mdast"
)

// Result is the envelope for structured output formats.
type Result struct {
	Found   int    `json:"found" yaml:"found"`
	Matches []Item `json:"matches" yaml:"matches"`
}

// Item is one matched node flattened for serialization. Fields that do not
// apply to a given kind are omitted.
type Item struct {
	Kind     string         `json:"kind" yaml:"kind"`
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Level    int            `json:"level,omitempty" yaml:"level,omitempty"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Text     string         `json:"text,omitempty" yaml:"text,omitempty"`
	URL      string         `json:"url,omitempty" yaml:"url,omitempty"`
	Language string         `json:"language,omitempty" yaml:"language,omitempty"`
	Content  string         `json:"content,omitempty" yaml:"content,omitempty"`
	Checked  *bool          `json:"checked,omitempty" yaml:"checked,omitempty"`
	Ordered  bool           `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Format   string         `json:"format,omitempty" yaml:"format,omitempty"`
	Fields   map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
	Columns  []string       `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows     [][]string     `json:"rows,omitempty" yaml:"rows,omitempty"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
}

// JSON renders the matches as an indented JSON document.
func JSON(nodes []mdast.Node) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result(nodes)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// YAML renders the matches as a YAML document.
func YAML(nodes []mdast.Node) (string, error) {
	out, err := yaml.Marshal(result(nodes))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func result(nodes []mdast.Node) Result {
	r := Result{Found: len(nodes), Matches: []Item{}}
	for _, n := range nodes {
		r.Matches = append(r.Matches, item(n))
	}
	return r
}

func item(n mdast.Node) Item {
	switch n := n.(type) {
	case *mdast.Link:
		kind := "link"
		if n.Image {
			kind = "image"
		}
		return Item{Kind: kind, Text: mdast.SpansText(n.Spans), URL: n.URL, Title: n.Title}

	case *mdast.Section:
		return Item{
			Kind:  string(n.Kind()),
			ID:    n.ID(),
			Level: n.Level,
			Title: mdast.SpansText(n.Title),
			Text:  mdast.BlockText(n),
		}

	case *mdast.ListItem:
		return Item{
			Kind:    string(n.Kind()),
			ID:      n.ID(),
			Text:    mdast.SpansText(n.Spans),
			Checked: n.Task,
			Ordered: n.Ordered,
		}

	case *mdast.CodeBlock:
		return Item{Kind: string(n.Kind()), ID: n.ID(), Language: n.Language, Content: n.Content}

	case *mdast.FrontMatter:
		return Item{Kind: string(n.Kind()), ID: n.ID(), Format: n.Format, Fields: n.Fields, Content: n.Raw}

	case *mdast.Table:
		it := Item{Kind: string(n.Kind()), ID: n.ID()}
		for _, c := range n.Header {
			it.Columns = append(it.Columns, mdast.SpansText(c.Spans))
		}
		for _, row := range n.Rows {
			var cells []string
			for _, c := range row {
				cells = append(cells, mdast.SpansText(c.Spans))
			}
			it.Rows = append(it.Rows, cells)
		}
		return it

	case *mdast.HTMLBlock:
		return Item{Kind: string(n.Kind()), ID: n.ID(), Content: n.Content}

	case *mdast.FootnoteDef:
		return Item{Kind: string(n.Kind()), ID: n.ID(), Label: n.Label, Text: mdast.BlockText(n)}

	case mdast.Block:
		return Item{Kind: string(n.Kind()), ID: n.ID(), Text: mdast.BlockText(n)}

	default:
		return Item{Kind: "unknown"}
	}
}

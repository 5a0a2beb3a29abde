package output

import (
	"fmt"
	"io"

	"github.com/arfbllh/mdq/internal/mdast"
)

// Format names a supported output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPlain    Format = "plain"
	FormatYAML     Format = "yaml"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "plain", "text":
		return FormatPlain, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected md, json, plain, or yaml)", name)
	}
}

// Write serializes the matched nodes to w in the given format.
func Write(w io.Writer, doc *mdast.Document, nodes []mdast.Node, format Format) error {
	var out string
	var err error
	switch format {
	case FormatJSON:
		out, err = JSON(nodes)
	case FormatPlain:
		out = Plain(nodes)
	case FormatYAML:
		out, err = YAML(nodes)
	default:
		out = Markdown(doc, nodes)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

package query

import (
	"fmt"
	"strings"
)

// ParseError is an invalid selector query. Error renders a caret display
// pointing at the offending position in the query text.
type ParseError struct {
	Query   string
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	pos := e.Pos
	if pos > len(e.Query) {
		pos = len(e.Query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, " --> 1:%d\n", pos+1)
	sb.WriteString("  |\n")
	fmt.Fprintf(&sb, "1 | %s\n", e.Query)
	sb.WriteString("  | " + strings.Repeat(" ", pos) + "^---\n")
	sb.WriteString("  |\n")
	sb.WriteString("  = " + e.Message)
	return sb.String()
}

var suggestionLines = []string{
	"Use # for sections (e.g., '# My Section')",
	"Use - for list items (e.g., '- List item')",
	"Use [] for links (e.g., '[text](url)')",
	"Use > for blockquotes (e.g., '> Quote text')",
	"Use ``` for code blocks (e.g., '```rust code')",
	"Use +++ for front matter (e.g., '+++ toml')",
	"Use </> for HTML (e.g., '</> <div>')",
	"Use P: for paragraphs (e.g., 'P: paragraph text')",
	"Use :-: for tables (e.g., ':-: column | row')",
	"Use | to separate multiple selectors (e.g., '# Section | - List item')",
}

// WithSuggestions returns the error text followed by the selector cheat
// sheet, for interactive display.
func (e *ParseError) WithSuggestions() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n\nSuggestions:")
	for _, line := range suggestionLines {
		sb.WriteString("\n  • " + line)
	}
	return sb.String()
}

// Package query parses selector expressions and runs them against a parsed
// document tree.
package query

import (
	"regexp"
	"strings"
)

// StringMatcher matches text the way selector matchers do: bare strings are
// case-insensitive substring matches, quoted strings match case-sensitively,
// `^`/`$` anchor to the start/end, and `/…/` patterns are regular expressions.
type StringMatcher struct {
	// Any matches everything: an empty matcher or an explicit `*`.
	Any bool

	Pattern       string
	CaseSensitive bool
	AnchorStart   bool
	AnchorEnd     bool

	Regex *regexp.Regexp
}

// Matches reports whether s satisfies the matcher.
func (m StringMatcher) Matches(s string) bool {
	if m.Any {
		return true
	}
	if m.Regex != nil {
		return m.Regex.MatchString(s)
	}

	text, pattern := s, m.Pattern
	if !m.CaseSensitive {
		text = strings.ToLower(text)
		pattern = strings.ToLower(pattern)
	}

	switch {
	case m.AnchorStart && m.AnchorEnd:
		return text == pattern
	case m.AnchorStart:
		return strings.HasPrefix(text, pattern)
	case m.AnchorEnd:
		return strings.HasSuffix(text, pattern)
	default:
		return strings.Contains(text, pattern)
	}
}

// String returns a selector-syntax rendition of the matcher, for display.
func (m StringMatcher) String() string {
	if m.Any {
		return "*"
	}
	if m.Regex != nil {
		return "/" + m.Regex.String() + "/"
	}
	var sb strings.Builder
	if m.AnchorStart {
		sb.WriteString("^")
	}
	if m.CaseSensitive {
		sb.WriteString("\"" + m.Pattern + "\"")
	} else {
		sb.WriteString(m.Pattern)
	}
	if m.AnchorEnd {
		sb.WriteString("$")
	}
	return sb.String()
}

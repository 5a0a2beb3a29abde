package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseErr(t *testing.T, queryText string) *ParseError {
	t.Helper()
	_, err := Parse(queryText)
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok, "expected *ParseError, got %T", err)
	return perr
}

func TestParseErrorCaretDisplay(t *testing.T) {
	perr := parseErr(t, "$ ! invalid query string ! $")

	expected := " --> 1:1\n" +
		"  |\n" +
		"1 | $ ! invalid query string ! $\n" +
		"  | ^---\n" +
		"  |\n" +
		"  = expected valid query"
	assert.Equal(t, expected, perr.Error())
}

func TestParseErrorPosition(t *testing.T) {
	perr := parseErr(t, "# ok | ???")
	assert.Equal(t, 7, perr.Pos)
	assert.Contains(t, perr.Error(), " --> 1:8")
}

func TestSuggestionsListEverySelector(t *testing.T) {
	out := parseErr(t, "!invalid").WithSuggestions()

	assert.Contains(t, out, "Suggestions:")
	assert.Contains(t, out, "Use # for sections")
	assert.Contains(t, out, "Use - for list items")
	assert.Contains(t, out, "Use [] for links")
	assert.Contains(t, out, "Use > for blockquotes")
	assert.Contains(t, out, "Use ``` for code blocks")
	assert.Contains(t, out, "Use +++ for front matter")
	assert.Contains(t, out, "Use </> for HTML")
	assert.Contains(t, out, "Use P: for paragraphs")
	assert.Contains(t, out, "Use :-: for tables")
	assert.Contains(t, out, "Use | to separate multiple selectors")
}

// Inputs lifted from real-world typos: every one must fail with the
// suggestions block rather than a bare parser error.
func TestSuggestionsForInvalidQueries(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		mention string
	}{
		{"exclamation prefix", "!invalid", "Use # for sections"},
		{"hash suffix", "invalid#", "Use # for sections"},
		{"dash suffix", "invalid-", "Use - for list items"},
		{"bracket suffix", "invalid[]", "Use [] for links"},
		{"greater than suffix", "invalid>", "Use > for blockquotes"},
		{"code fence suffix", "invalid```", "Use ``` for code blocks"},
		{"front matter suffix", "invalid+++", "Use +++ for front matter"},
		{"html suffix", "invalid</>", "Use </> for HTML"},
		{"paragraph suffix", "invalidP:", "Use P: for paragraphs"},
		{"table suffix", "invalid:-:", "Use :-: for tables"},
		{"pipe suffix", "invalid|", "Use | to separate multiple selectors"},
		{"at prefix", "@invalid", "Use # for sections"},
		{"number prefix", "123invalid", "Use # for sections"},
		{"number suffix", "invalid123", "Use # for sections"},
		{"mixed hash", "abc#def", "Use # for sections"},
		{"mixed dash", "abc-123", "Use - for list items"},
		{"mixed brackets", "abc[123]", "Use [] for links"},
		{"mixed greater than", "abc>def", "Use > for blockquotes"},
		{"mixed code fence", "abc```def", "Use ``` for code blocks"},
		{"parentheses", "xyz(abc", "Use # for sections"},
		{"backslash", "xyz\\abc", "Use # for sections"},
		{"underscore", "xyz_abc", "Use # for sections"},
		{"semicolon", "abc;xyz", "Use # for sections"},
		{"tilde", "abc~xyz", "Use # for sections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := parseErr(t, tt.query).WithSuggestions()
			assert.Contains(t, out, "Suggestions:")
			assert.Contains(t, out, tt.mention)
		})
	}
}

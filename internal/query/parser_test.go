package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionSelector(t *testing.T) {
	chain, err := Parse("# My Section")
	require.NoError(t, err)
	require.Len(t, chain, 1)

	sec, ok := chain[0].(*SectionSelector)
	require.True(t, ok, "expected *SectionSelector, got %T", chain[0])
	assert.Equal(t, "My Section", sec.Title.Pattern)
	assert.False(t, sec.Title.Any)
}

func TestParseChain(t *testing.T) {
	chain, err := Parse("# second | - *")
	require.NoError(t, err)
	require.Len(t, chain, 2)

	sec := chain[0].(*SectionSelector)
	assert.Equal(t, "second", sec.Title.Pattern)

	item, ok := chain[1].(*ListItemSelector)
	require.True(t, ok)
	assert.False(t, item.Ordered)
	assert.True(t, item.Text.Any)
}

func TestParseListItemSelectors(t *testing.T) {
	tests := []struct {
		query   string
		ordered bool
		task    TaskFilter
		pattern string
		any     bool
	}{
		{"- hello", false, TaskAny, "hello", false},
		{"1. hello", true, TaskAny, "hello", false},
		{"3. third", true, TaskAny, "third", false},
		{"- [ ] todo", false, TaskUnchecked, "todo", false},
		{"- [x] done", false, TaskChecked, "done", false},
		{"- [?] *", false, TaskEither, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			chain, err := Parse(tt.query)
			require.NoError(t, err)
			require.Len(t, chain, 1)

			item, ok := chain[0].(*ListItemSelector)
			require.True(t, ok)
			assert.Equal(t, tt.ordered, item.Ordered)
			assert.Equal(t, tt.task, item.Task)
			assert.Equal(t, tt.pattern, item.Text.Pattern)
			assert.Equal(t, tt.any, item.Text.Any)
		})
	}
}

func TestParseListItemBadTask(t *testing.T) {
	_, err := Parse("- [y] nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[ ], [x], or [?]")
}

func TestParseLinkSelector(t *testing.T) {
	chain, err := Parse("[docs](example.com)")
	require.NoError(t, err)

	link, ok := chain[0].(*LinkSelector)
	require.True(t, ok)
	assert.False(t, link.Image)
	assert.Equal(t, "docs", link.Text.Pattern)
	assert.Equal(t, "example.com", link.URL.Pattern)
}

func TestParseImageSelector(t *testing.T) {
	chain, err := Parse("![logo](*)")
	require.NoError(t, err)

	link := chain[0].(*LinkSelector)
	assert.True(t, link.Image)
	assert.Equal(t, "logo", link.Text.Pattern)
	assert.True(t, link.URL.Any)
}

func TestParseLinkMissingParen(t *testing.T) {
	_, err := Parse("[docs]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected '('")
}

func TestParseCodeBlockSelector(t *testing.T) {
	chain, err := Parse("```go func main")
	require.NoError(t, err)

	cb, ok := chain[0].(*CodeBlockSelector)
	require.True(t, ok)
	assert.Equal(t, "go", cb.Language.Pattern)
	assert.Equal(t, "func main", cb.Content.Pattern)
}

func TestParseCodeBlockAnyLanguage(t *testing.T) {
	chain, err := Parse("```* hello")
	require.NoError(t, err)

	cb := chain[0].(*CodeBlockSelector)
	assert.True(t, cb.Language.Any)
	assert.Equal(t, "hello", cb.Content.Pattern)
}

func TestParseBlockquoteSelector(t *testing.T) {
	chain, err := Parse("> Quote text")
	require.NoError(t, err)

	bq, ok := chain[0].(*BlockquoteSelector)
	require.True(t, ok)
	assert.Equal(t, "Quote text", bq.Text.Pattern)
}

func TestParseParagraphSelector(t *testing.T) {
	chain, err := Parse("P: paragraph text")
	require.NoError(t, err)

	p, ok := chain[0].(*ParagraphSelector)
	require.True(t, ok)
	assert.Equal(t, "paragraph text", p.Text.Pattern)
}

func TestParseFrontMatterSelector(t *testing.T) {
	chain, err := Parse("+++ toml")
	require.NoError(t, err)

	fm, ok := chain[0].(*FrontMatterSelector)
	require.True(t, ok)
	assert.Equal(t, "toml", fm.Text.Pattern)
}

func TestParseHTMLSelector(t *testing.T) {
	chain, err := Parse("</> <div>")
	require.NoError(t, err)

	h, ok := chain[0].(*HTMLSelector)
	require.True(t, ok)
	assert.Equal(t, "<div>", h.Text.Pattern)
}

func TestParseTableSelector(t *testing.T) {
	chain, err := Parse(":-: Name :-: Ada")
	require.NoError(t, err)

	tb, ok := chain[0].(*TableSelector)
	require.True(t, ok)
	assert.Equal(t, "Name", tb.Column.Pattern)
	assert.Equal(t, "Ada", tb.Row.Pattern)
}

func TestParseTableSelectorColumnOnly(t *testing.T) {
	chain, err := Parse(":-: Name")
	require.NoError(t, err)

	tb := chain[0].(*TableSelector)
	assert.Equal(t, "Name", tb.Column.Pattern)
	assert.True(t, tb.Row.Any)
}

func TestParseMatcherAnchors(t *testing.T) {
	chain, err := Parse("# ^Exact Title$")
	require.NoError(t, err)

	sec := chain[0].(*SectionSelector)
	assert.True(t, sec.Title.AnchorStart)
	assert.True(t, sec.Title.AnchorEnd)
	assert.Equal(t, "Exact Title", sec.Title.Pattern)
}

func TestParseMatcherQuoted(t *testing.T) {
	chain, err := Parse(`# "Case | Sensitive"`)
	require.NoError(t, err)

	sec := chain[0].(*SectionSelector)
	assert.True(t, sec.Title.CaseSensitive)
	assert.Equal(t, "Case | Sensitive", sec.Title.Pattern)
}

func TestParseMatcherQuotedEscapes(t *testing.T) {
	chain, err := Parse(`# "tab\there \u{2764}"`)
	require.NoError(t, err)

	sec := chain[0].(*SectionSelector)
	assert.Equal(t, "tab\there ❤", sec.Title.Pattern)
}

func TestParseMatcherRegex(t *testing.T) {
	chain, err := Parse(`# /sec(tion)?s?/`)
	require.NoError(t, err)

	sec := chain[0].(*SectionSelector)
	require.NotNil(t, sec.Title.Regex)
	assert.True(t, sec.Title.Matches("Sections galore") == sec.Title.Regex.MatchString("Sections galore"))
}

func TestParseMatcherRegexEscapedSlash(t *testing.T) {
	chain, err := Parse(`[*](/docs\/api/)`)
	require.NoError(t, err)

	link := chain[0].(*LinkSelector)
	require.NotNil(t, link.URL.Regex)
	assert.True(t, link.URL.Matches("https://example.com/docs/api"))
}

func TestParseMatcherBadRegex(t *testing.T) {
	_, err := Parse(`# /([unclosed/`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
}

func TestParseEmptyQuery(t *testing.T) {
	_, err := Parse("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty query")
}

func TestParseTrailingPipe(t *testing.T) {
	_, err := Parse("# Section |")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected selector after '|'")
}

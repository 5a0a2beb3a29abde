package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arfbllh/mdq/internal/mdast"
)

const sampleDoc = `## First section

- hello
- world

## Second section

- foo
- bar
`

func mustParseDoc(t *testing.T, src string) *mdast.Document {
	t.Helper()
	doc, err := mdast.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func mustFind(t *testing.T, doc *mdast.Document, queryText string) []mdast.Node {
	t.Helper()
	chain, err := Parse(queryText)
	require.NoError(t, err)
	return chain.Find(doc)
}

func TestFindSectionThenListItems(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	nodes := mustFind(t, doc, "# second | - *")
	require.Len(t, nodes, 2)

	texts := []string{}
	for _, n := range nodes {
		item, ok := n.(*mdast.ListItem)
		require.True(t, ok, "expected *ListItem, got %T", n)
		texts = append(texts, item.Text())
	}
	assert.Equal(t, []string{"foo", "bar"}, texts)
}

func TestFindSectionCaseInsensitive(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	nodes := mustFind(t, doc, "# SECOND")
	require.Len(t, nodes, 1)
	assert.Equal(t, "Second section", nodes[0].(*mdast.Section).TitleText())
}

func TestFindNoMatches(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)
	assert.Empty(t, mustFind(t, doc, "# third"))
}

func TestFindAllListItems(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)
	assert.Len(t, mustFind(t, doc, "- *"), 4)
}

func TestFindTaskItems(t *testing.T) {
	doc := mustParseDoc(t, `# Tasks

- plain item
- [ ] open task
- [x] closed task
`)

	assert.Len(t, mustFind(t, doc, "- *"), 3)
	assert.Len(t, mustFind(t, doc, "- [?] *"), 2)

	open := mustFind(t, doc, "- [ ] *")
	require.Len(t, open, 1)
	assert.Equal(t, "open task", open[0].(*mdast.ListItem).Text())

	closed := mustFind(t, doc, "- [x] *")
	require.Len(t, closed, 1)
	assert.Equal(t, "closed task", closed[0].(*mdast.ListItem).Text())
}

func TestFindOrderedVsUnordered(t *testing.T) {
	doc := mustParseDoc(t, `1. first
2. second

- bullet
`)

	assert.Len(t, mustFind(t, doc, "1. *"), 2)
	assert.Len(t, mustFind(t, doc, "- *"), 1)
}

func TestFindLinks(t *testing.T) {
	doc := mustParseDoc(t, `See [the docs](https://docs.example.com) and
[another page](https://example.com/page).

![diagram](images/d.png)
`)

	links := mustFind(t, doc, "[*](*)")
	require.Len(t, links, 2)
	assert.Equal(t, "the docs", links[0].(*mdast.Link).Text())

	byURL := mustFind(t, doc, "[*](example.com/page)")
	require.Len(t, byURL, 1)
	assert.Equal(t, "another page", byURL[0].(*mdast.Link).Text())

	images := mustFind(t, doc, "![*](*)")
	require.Len(t, images, 1)
	assert.True(t, images[0].(*mdast.Link).Image)
}

func TestFindBlockquote(t *testing.T) {
	doc := mustParseDoc(t, `> Wise words here.

> Other quote.
`)

	nodes := mustFind(t, doc, "> wise")
	require.Len(t, nodes, 1)
	assert.IsType(t, &mdast.Blockquote{}, nodes[0])
}

func TestFindCodeBlockByLanguage(t *testing.T) {
	doc := mustParseDoc(t, "```go\nfunc main() {}\n```\n\n```python\nprint(1)\n```\n")

	goBlocks := mustFind(t, doc, "```go")
	require.Len(t, goBlocks, 1)
	assert.Equal(t, "go", goBlocks[0].(*mdast.CodeBlock).Language)

	all := mustFind(t, doc, "```")
	assert.Len(t, all, 2)

	byContent := mustFind(t, doc, "```* print")
	require.Len(t, byContent, 1)
	assert.Equal(t, "python", byContent[0].(*mdast.CodeBlock).Language)
}

func TestFindParagraph(t *testing.T) {
	doc := mustParseDoc(t, `First paragraph here.

Second one there.
`)

	nodes := mustFind(t, doc, "P: second")
	require.Len(t, nodes, 1)
}

func TestFindFrontMatter(t *testing.T) {
	doc := mustParseDoc(t, "---\ntitle: Hello\n---\n\nBody text.\n")

	nodes := mustFind(t, doc, "+++ title")
	require.Len(t, nodes, 1)
	assert.IsType(t, &mdast.FrontMatter{}, nodes[0])

	byFormat := mustFind(t, doc, "+++ yaml")
	assert.Len(t, byFormat, 1)
}

func TestFindHTMLBlock(t *testing.T) {
	doc := mustParseDoc(t, "<div class=\"note\">\nraw html\n</div>\n\nText.\n")

	nodes := mustFind(t, doc, "</> div")
	require.Len(t, nodes, 1)
	assert.IsType(t, &mdast.HTMLBlock{}, nodes[0])
}

func TestFindTableProjection(t *testing.T) {
	doc := mustParseDoc(t, `| Name  | Role    |
| ----- | ------- |
| Ada   | Eng     |
| Grace | Admiral |
`)

	nodes := mustFind(t, doc, ":-: Name :-: grace")
	require.Len(t, nodes, 1)

	table := nodes[0].(*mdast.Table)
	require.Len(t, table.Header, 1)
	assert.Equal(t, "Name", table.Header[0].Text())
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Grace", table.Rows[0][0].Text())
}

func TestFindTableNoColumnMatch(t *testing.T) {
	doc := mustParseDoc(t, `| Name |
| ---- |
| Ada  |
`)
	assert.Empty(t, mustFind(t, doc, ":-: Missing"))
}

func TestFindAnchoredMatcher(t *testing.T) {
	doc := mustParseDoc(t, `## Overview

## Overview of everything
`)

	exact := mustFind(t, doc, "# ^overview$")
	require.Len(t, exact, 1)
	assert.Equal(t, "Overview", exact[0].(*mdast.Section).TitleText())

	prefix := mustFind(t, doc, "# ^overview")
	assert.Len(t, prefix, 2)
}

func TestFindRegexMatcher(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	nodes := mustFind(t, doc, `# /(First|Second) section/`)
	assert.Len(t, nodes, 2)
}

func TestFindDeduplicates(t *testing.T) {
	// Both stages match the same sections; the subtree walk must not
	// produce duplicates.
	doc := mustParseDoc(t, `# Top

## Inner

- x
`)

	nodes := mustFind(t, doc, "# * | - *")
	assert.Len(t, nodes, 1)
}

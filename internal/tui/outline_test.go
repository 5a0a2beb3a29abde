package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arfbllh/mdq/internal/mdast"
)

const outlineDoc = `# Guide

Intro.

## Install

Steps.

## Usage

### Examples

Text.
`

func TestBuildOutline(t *testing.T) {
	doc, err := mdast.Parse([]byte(outlineDoc))
	require.NoError(t, err)

	data := BuildOutline(doc, "guide.md")
	require.Len(t, data.Entries, 4)

	titles := []string{}
	for _, e := range data.Entries {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Guide", "Install", "Usage", "Examples"}, titles)
	assert.Equal(t, 1, data.Entries[0].Level)
	assert.Equal(t, 3, data.Entries[3].Level)
}

func TestOutlineEntryQuery(t *testing.T) {
	e := OutlineEntry{Title: "Install"}
	assert.Equal(t, "# Install", e.Query())
}

func TestOutlineModelPreview(t *testing.T) {
	doc, err := mdast.Parse([]byte(outlineDoc))
	require.NoError(t, err)

	m := InitOutlineModel(BuildOutline(doc, "guide.md"), 80)
	assert.Contains(t, m.View(), "headings")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(OutlineModel)
	require.NotNil(t, m.Selected())
	assert.Equal(t, "Guide", m.Selected().Title)
	assert.Contains(t, m.View(), "Preview: Guide")
	assert.Contains(t, m.View(), "Query: # Guide")
}

func TestOutlineModelEmptyDocument(t *testing.T) {
	doc, err := mdast.Parse([]byte("just a paragraph\n"))
	require.NoError(t, err)

	m := InitOutlineModel(BuildOutline(doc, "plain.md"), 80)
	assert.Contains(t, m.View(), "No headings")
}

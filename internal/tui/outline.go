// Package tui holds the bubbletea outline browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arfbllh/mdq/internal/mdast"
	"github.com/arfbllh/mdq/internal/output"
	"github.com/arfbllh/mdq/internal/styles"
)

// OutlineEntry is one heading in the document outline.
type OutlineEntry struct {
	Title   string
	Level   int
	ID      string
	Section *mdast.Section
}

// Query returns the selector that matches this heading.
func (e OutlineEntry) Query() string {
	return "# " + e.Title
}

// OutlineData holds the flattened heading outline for one document.
type OutlineData struct {
	Source  string
	Entries []OutlineEntry
	doc     *mdast.Document
}

// BuildOutline flattens the document's section tree in reading order.
func BuildOutline(doc *mdast.Document, source string) *OutlineData {
	data := &OutlineData{Source: source, doc: doc}
	var walk func(blocks []mdast.Block)
	walk = func(blocks []mdast.Block) {
		for _, b := range blocks {
			sec, ok := b.(*mdast.Section)
			if !ok {
				continue
			}
			data.Entries = append(data.Entries, OutlineEntry{
				Title:   mdast.SpansText(sec.Title),
				Level:   sec.Level,
				ID:      sec.ID(),
				Section: sec,
			})
			walk(sec.Blocks)
		}
	}
	walk(doc.Blocks)
	return data
}

// OutlineModel is the bubbletea model for browsing a document outline.
type OutlineModel struct {
	table       table.Model
	viewport    viewport.Model
	data        *OutlineData
	wrapWidth   int
	showPreview bool
	selected    *OutlineEntry
	width       int
	height      int
}

// InitOutlineModel creates the outline browser for the given document.
func InitOutlineModel(data *OutlineData, wrapWidth int) OutlineModel {
	columns := []table.Column{
		{Title: "Heading", Width: 50},
		{Title: "Level", Width: 6},
		{Title: "ID", Width: 10},
	}

	rows := []table.Row{}
	for _, e := range data.Entries {
		indent := strings.Repeat("  ", e.Level-1)
		rows = append(rows, table.Row{
			indent + e.Title,
			fmt.Sprintf("H%d", e.Level),
			e.ID,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		Padding(1)

	return OutlineModel{
		table:     t,
		viewport:  vp,
		data:      data,
		wrapWidth: wrapWidth,
	}
}

// Selected returns the entry last previewed, or nil.
func (m OutlineModel) Selected() *OutlineEntry {
	return m.selected
}

func (m OutlineModel) Init() tea.Cmd {
	return nil
}

func (m OutlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 8)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		if m.showPreview {
			switch msg.String() {
			case "q", "esc":
				m.showPreview = false
				return m, nil
			case "up", "k", "down", "j":
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		} else {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			case "down", "j":
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			case "enter":
				if len(m.data.Entries) > 0 {
					idx := m.table.Cursor()
					if idx < len(m.data.Entries) {
						m.selected = &m.data.Entries[idx]
						m.showPreview = true
						md := output.Markdown(m.data.doc, []mdast.Node{m.selected.Section})
						m.viewport.SetContent(output.Terminal(md, m.wrapWidth))
						m.viewport.GotoTop()
					}
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m OutlineModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdq Outline"))
	b.WriteString("\n\n")

	if len(m.data.Entries) == 0 {
		b.WriteString(styles.DimStyle.Render("No headings in " + m.data.Source))
		b.WriteString("\n")
		return b.String()
	}

	if m.showPreview {
		b.WriteString(styles.HighlightStyle.Render("Preview: " + m.selected.Title))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Query: " + m.selected.Query()))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
	} else {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s • %d headings", m.data.Source, len(m.data.Entries))))
		b.WriteString("\n\n")
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter preview • q quit"))
		b.WriteString("\n")
	}

	return b.String()
}

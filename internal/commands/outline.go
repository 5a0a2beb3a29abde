package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arfbllh/mdq/internal/config"
	"github.com/arfbllh/mdq/internal/mdast"
	"github.com/arfbllh/mdq/internal/styles"
	"github.com/arfbllh/mdq/internal/tui"
)

// Outline opens the interactive heading browser for a file or stdin.
func Outline(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}

	source, content, err := readInput(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}

	doc, err := mdast.Parse(content)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ failed to parse "+source+": "+err.Error()))
		os.Exit(1)
	}

	model := tui.InitOutlineModel(tui.BuildOutline(doc, source), cfg.WrapWidth)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}

	// Echo the selector for the last previewed heading so it can be reused.
	if m, ok := finalModel.(tui.OutlineModel); ok {
		if sel := m.Selected(); sel != nil {
			fmt.Println(styles.DimStyle.Render("Query: " + sel.Query()))
		}
	}
}

package output

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for interactive display using glamour. Falls back
// to the raw markdown if the renderer cannot be built or fails.
func Terminal(markdown string, wrapWidth int) string {
	if wrapWidth <= 0 {
		wrapWidth = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/cintel/internal/runtime"
)

// RenderSnapshot draws the whole dashboard once, without interaction: title,
// current widget values, then every layout row. Plain mode drops all styling.
func RenderSnapshot(rt *runtime.Runtime, width int, mode OutputMode) string {
	def := rt.Definition()
	if width <= 0 {
		width = defaultTerminalWidth
	}
	body, _ := RenderLayout(def.Layout, rt.Result, width, "")
	return mode.Present(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(def.Title),
		describePanel(def.Panel, rt.State()),
		"",
		body,
	))
}

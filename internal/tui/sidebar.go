package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/cintel/internal/widget"
)

const sliderTrackWidth = 18

// sidebarFocus describes which widget, if any, is focused and where its option cursor is.
type sidebarFocus struct {
	widgetID string
	option   int
	editing  bool
	input    textinput.Model
}

// renderSidebar draws the panel title, every widget with its current value, and the links.
func renderSidebar(p widget.Panel, state widget.State, focus sidebarFocus, height int) string {
	sections := []string{TitleStyle.Render(p.Title), ""}
	for _, w := range p.Widgets {
		v, _ := state.Get(w.ID)
		sections = append(sections, renderWidget(w, v, focus), "")
	}
	for _, l := range p.Links {
		sections = append(sections, InfoStyle.Render(l.Label)+" "+SubtleStyle.Render(l.URL))
	}

	style := SidebarStyle
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func renderWidget(w widget.Widget, v widget.Value, focus sidebarFocus) string {
	focused := focus.widgetID == w.ID
	label := LabelStyle.Render(w.Label)
	if focused {
		label = FocusedLabelStyle.Render("▸ " + w.Label)
	}

	var body string
	switch w.Kind {
	case widget.KindSelectize:
		body = renderSelect(v, focused)
	case widget.KindNumeric:
		if focused && focus.editing {
			body = focus.input.View()
		} else {
			body = "[ " + ValueStyle.Render(valueString(v)) + " ]"
		}
	case widget.KindSlider:
		body = renderSlider(w, v)
	case widget.KindCheckboxGroup:
		set, _ := v.(widget.Set)
		cursor := -1
		if focused {
			cursor = focus.option
		}
		body = renderCheckboxes(w, set, cursor)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, "  "+body)
}

func valueString(v widget.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func renderSelect(v widget.Value, focused bool) string {
	if focused {
		return "‹ " + ValueStyle.Render(valueString(v)) + " ›"
	}
	return ValueStyle.Render(valueString(v))
}

// renderSlider draws a horizontal track with the handle positioned by value.
func renderSlider(w widget.Widget, v widget.Value) string {
	n, _ := v.(widget.Number)
	pos := 0
	if span := w.Max - w.Min; span > 0 {
		pos = int((float64(n) - w.Min) / span * float64(sliderTrackWidth-1))
	}
	pos = max(0, min(sliderTrackWidth-1, pos))

	track := strings.Repeat("━", pos) + "●" + strings.Repeat("─", sliderTrackWidth-1-pos)
	return track + " " + ValueStyle.Render(n.String())
}

func renderCheckboxes(w widget.Widget, set widget.Set, cursor int) string {
	items := make([]string, len(w.Options))
	for i, o := range w.Options {
		box := "[ ]"
		if set.Contains(o) {
			box = CheckedStyle.Render("[x]")
		}
		text := o
		if i == cursor {
			text = FocusedLabelStyle.Underline(true).Render(o)
		}
		items[i] = box + " " + text
	}
	if w.Inline {
		return strings.Join(items, "  ")
	}
	return strings.Join(items, "\n  ")
}

// describePanel is the non-interactive summary of current widget values.
func describePanel(p widget.Panel, state widget.State) string {
	lines := make([]string, 0, len(p.Widgets))
	for _, w := range p.Widgets {
		v, _ := state.Get(w.ID)
		lines = append(lines, LabelStyle.Render(w.Label+":")+" "+ValueStyle.Render(valueString(v)))
	}
	return strings.Join(lines, "   ")
}

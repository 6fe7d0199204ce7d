// Package tui is the terminal front end of the dashboard: a sidebar of widgets next to a
// scrollable main area of cards, driven by the reactive runtime.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/cintel/internal/layout"
	"github.com/rshade/cintel/internal/logging"
	"github.com/rshade/cintel/internal/runtime"
	"github.com/rshade/cintel/internal/widget"
)

const numericInputLimit = 6

// Model is the Bubble Tea model for an interactive dashboard session.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx context.Context
	rt  *runtime.Runtime
	log zerolog.Logger

	// Interactive components
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model

	// Focus runs over the panel widgets first, then the layout cards.
	focus      int
	option     int
	editing    bool
	fullScreen string
	rowOffsets []int

	// Display configuration
	width  int
	height int

	status    string
	statusErr bool
	quitting  bool
}

// New creates the model for a started runtime.
func New(ctx context.Context, rt *runtime.Runtime) Model {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = numericInputLimit
	input.Width = numericInputLimit

	m := Model{
		ctx:      ctx,
		rt:       rt,
		log:      logging.ComponentLogger(logging.FromContext(ctx), "tui"),
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(defaultWidth-sidebarWidth-1, defaultHeight-footerHeight),
		input:    input,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.syncFocus()
	m.refresh()
	return m
}

// Run starts the Bubble Tea program on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, rt *runtime.Runtime) error {
	p := tea.NewProgram(New(ctx, rt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model (Bubble Tea interface).
func (m Model) Init() tea.Cmd {
	if m.editing {
		return textinput.Blink
	}
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Exit):
		if m.fullScreen != "" {
			m.fullScreen = ""
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	}

	if m.editing {
		if key.Matches(msg, m.keys.Commit) {
			m.commitInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if w, ok := m.focusedWidget(); ok {
		m.handleWidgetKey(w, msg)
		return m, nil
	}

	if c, ok := m.focusedCard(); ok && key.Matches(msg, m.keys.FullScreen) {
		if c.FullScreen {
			m.fullScreen = c.Output
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleWidgetKey applies arrow and toggle keys to the focused widget. Numeric widgets are
// edited through the text input instead.
//
//nolint:exhaustive // Numeric widgets never reach this path.
func (m *Model) handleWidgetKey(w widget.Widget, msg tea.KeyMsg) {
	delta := 0
	switch {
	case key.Matches(msg, m.keys.Left):
		delta = -1
	case key.Matches(msg, m.keys.Right):
		delta = 1
	}

	current, _ := m.rt.Value(w.ID)
	switch w.Kind {
	case widget.KindSelectize, widget.KindSlider:
		if delta != 0 {
			m.apply(w.ID, w.Nudge(current, delta))
		}
	case widget.KindCheckboxGroup:
		if delta != 0 {
			m.option = max(0, min(len(w.Options)-1, m.option+delta))
			return
		}
		if key.Matches(msg, m.keys.Toggle) && len(w.Options) > 0 {
			set, _ := current.(widget.Set)
			m.apply(w.ID, set.Toggle(w.Options[m.option]))
		}
	}
}

func (m *Model) commitInput() {
	w, ok := m.focusedWidget()
	if !ok {
		return
	}
	ids, err := m.rt.SetString(m.ctx, w.ID, m.input.Value())
	m.report(w.ID, ids, err)
	if err != nil {
		// Restore the last accepted value so the box never shows a rejected number.
		v, _ := m.rt.Value(w.ID)
		m.input.SetValue(valueString(v))
		m.input.CursorEnd()
	}
	m.refresh()
}

func (m *Model) apply(id string, v widget.Value) {
	ids, err := m.rt.Set(m.ctx, id, v)
	m.report(id, ids, err)
	m.refresh()
}

func (m *Model) report(id string, ids []string, err error) {
	m.statusErr = err != nil
	switch {
	case err != nil:
		m.status = err.Error()
		m.log.Debug().Err(err).Str("widget", id).Msg("widget change rejected")
	case len(ids) == 0:
		v, _ := m.rt.Value(id)
		m.status = fmt.Sprintf("%s = %s", id, valueString(v))
	default:
		v, _ := m.rt.Value(id)
		m.status = fmt.Sprintf("%s = %s: updated %s", id, valueString(v), strings.Join(ids, ", "))
	}
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	n := m.focusables()
	if n == 0 {
		return m, nil
	}
	m.focus = ((m.focus+delta)%n + n) % n
	m.syncFocus()
	m.refresh()
	if m.editing {
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) focusables() int {
	def := m.rt.Definition()
	return len(def.Panel.Widgets) + len(def.Layout.Cards())
}

func (m Model) focusedWidget() (widget.Widget, bool) {
	widgets := m.rt.Definition().Panel.Widgets
	if m.focus < len(widgets) {
		return widgets[m.focus], true
	}
	return widget.Widget{}, false
}

func (m Model) focusedCard() (layout.Card, bool) {
	def := m.rt.Definition()
	i := m.focus - len(def.Panel.Widgets)
	cards := def.Layout.Cards()
	if i >= 0 && i < len(cards) {
		return cards[i], true
	}
	return layout.Card{}, false
}

// syncFocus prepares the numeric input when a numeric widget gains focus.
func (m *Model) syncFocus() {
	m.option = 0
	m.editing = false
	m.input.Blur()

	if w, ok := m.focusedWidget(); ok && w.Kind == widget.KindNumeric {
		v, _ := m.rt.Value(w.ID)
		m.input.SetValue(valueString(v))
		m.input.CursorEnd()
		m.input.Focus()
		m.editing = true
	}
}

// refresh re-renders the main area into the viewport.
func (m *Model) refresh() {
	height := max(1, m.height-footerHeight)
	def := m.rt.Definition()

	if m.fullScreen != "" {
		if c, ok := def.Layout.Find(m.fullScreen); ok {
			m.viewport.Width = m.width
			m.viewport.Height = height
			res, ran := m.rt.Result(c.Output)
			m.viewport.SetContent(RenderCard(c, res, ran, m.width, height-borderPadding-1, true))
			m.viewport.GotoTop()
			return
		}
		m.fullScreen = ""
	}

	m.viewport.Width = max(1, m.width-sidebarWidth-1)
	m.viewport.Height = height

	focused := ""
	if c, ok := m.focusedCard(); ok {
		focused = c.Output
	}
	content, offsets := RenderLayout(def.Layout, m.rt.Result, m.viewport.Width, focused)
	m.viewport.SetContent(content)
	m.rowOffsets = offsets

	if focused != "" {
		for i, row := range def.Layout.Rows {
			for _, c := range row.Cards {
				if c.Output == focused && i < len(offsets) {
					m.viewport.SetYOffset(offsets[i])
				}
			}
		}
	}
}

// View renders the current view (Bubble Tea interface).
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	def := m.rt.Definition()
	main := m.viewport.View()
	if m.fullScreen == "" {
		focus := sidebarFocus{option: m.option, editing: m.editing, input: m.input}
		if w, ok := m.focusedWidget(); ok {
			focus.widgetID = w.ID
		}
		sidebar := renderSidebar(def.Panel, m.rt.State(), focus, m.viewport.Height)
		main = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	}

	status := SubtleStyle.Render(def.Title)
	if m.status != "" {
		status = InfoStyle.Render(m.status)
		if m.statusErr {
			status = ErrorStyle.Render(m.status)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, status, m.help.View(m.keys))
}

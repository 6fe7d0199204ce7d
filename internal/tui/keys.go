package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the dashboard's key bindings.
type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Left       key.Binding
	Right      key.Binding
	Toggle     key.Binding
	Commit     key.Binding
	FullScreen key.Binding
	Exit       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "change")),
		Right:      key.NewBinding(key.WithKeys("right", "l")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Commit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		FullScreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "full screen")),
		Exit:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Left, k.Toggle, k.Commit, k.FullScreen, k.Exit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

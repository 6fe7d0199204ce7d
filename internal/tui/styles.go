package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorAccent  = lipgloss.Color("#7D56F4")
	ColorBorder  = lipgloss.Color("#5C5C5C")
	ColorFocus   = lipgloss.Color("#00B3A4")
	ColorError   = lipgloss.Color("#E5484D")
	ColorSubtle  = lipgloss.Color("#8A8A8A")
	ColorInfo    = lipgloss.Color("#3E9BFF")
	ColorChecked = lipgloss.Color("#46A758")
)

// Layout dimensions.
const (
	defaultWidth  = 120
	defaultHeight = 40
	sidebarWidth  = 34
	borderPadding = 2
	// footerHeight covers the status line and the help line.
	footerHeight = 2
)

// Shared styles.
//
//nolint:gochecknoglobals // Immutable style values shared by all views.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	HeaderStyle = lipgloss.NewStyle().Bold(true)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

	ValueStyle = lipgloss.NewStyle().Bold(true)

	SubtleStyle = lipgloss.NewStyle().Foreground(ColorSubtle).Italic(true)

	InfoStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	CheckedStyle = lipgloss.NewStyle().Foreground(ColorChecked)

	SidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	FocusedBoxStyle = BoxStyle.BorderForeground(ColorFocus)

	FocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorFocus)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder)

	TableSelectedStyle = lipgloss.NewStyle()
)

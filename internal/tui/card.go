package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/cintel/internal/layout"
	"github.com/rshade/cintel/internal/render"
	"github.com/rshade/cintel/internal/runtime"
)

// Card body heights, in lines, excluding border and header.
const (
	tableCardHeight = 12
	chartCardHeight = 16
	minColumnWidth  = 6
)

// printer formats counts with thousands separators.
//
//nolint:gochecknoglobals // Stateless formatter shared across renders.
var printer = message.NewPrinter(language.English)

// cardHeight returns the body height used for an output kind.
func cardHeight(res runtime.Result) int {
	if res.Output != nil && res.Output.Kind() == render.KindChart {
		return chartCardHeight
	}
	return tableCardHeight
}

// RenderCard draws one layout card in a bordered box of the given outer width.
// A failed binding is drawn as an error placeholder; a binding that has not run yet as pending.
func RenderCard(card layout.Card, res runtime.Result, ran bool, width, height int, focused bool) string {
	box := BoxStyle
	if focused {
		box = FocusedBoxStyle
	}
	inner := max(minColumnWidth, width-box.GetHorizontalFrameSize())

	var sections []string
	if card.Header != "" {
		header := HeaderStyle.Render(card.Header)
		if card.FullScreen {
			header += SubtleStyle.Render("  [f] full screen")
		}
		sections = append(sections, header)
	}
	sections = append(sections, RenderOutput(card.Output, res, ran, inner, height))

	return box.Width(width - borderPadding).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// RenderOutput draws only the body of an output.
func RenderOutput(id string, res runtime.Result, ran bool, width, height int) string {
	switch {
	case !ran:
		return SubtleStyle.Render("rendering " + id + "...")
	case res.Err != nil:
		return ErrorPlaceholder(id, res.Err, width)
	}

	switch out := res.Output.(type) {
	case *render.TableOutput:
		return renderTable(out, width, height)
	case *render.GridOutput:
		return renderGrid(out, width, height)
	case *render.ChartOutput:
		caption := SubtleStyle.Width(width).Render(out.Describe())
		body := out.View(width, max(1, height-lipgloss.Height(caption)))
		return lipgloss.JoinVertical(lipgloss.Left, body, caption)
	default:
		return ErrorPlaceholder(id, nil, width)
	}
}

// ErrorPlaceholder is shown in place of an output whose binding failed.
func ErrorPlaceholder(id string, err error, width int) string {
	msg := "output unavailable"
	if err != nil {
		msg = err.Error()
	}
	return ErrorStyle.Width(width).Render("✗ " + id + ": " + msg)
}

// renderTable draws the plain data table with the bubbles table component.
func renderTable(out *render.TableOutput, width, height int) string {
	if len(out.Columns) == 0 {
		return SubtleStyle.Render("empty table")
	}
	colWidth := max(minColumnWidth, width/len(out.Columns)-borderPadding)

	columns := make([]table.Column, len(out.Columns))
	for i, name := range out.Columns {
		columns[i] = table.Column{Title: name, Width: colWidth}
	}
	rows := make([]table.Row, len(out.Rows))
	for i, r := range out.Rows {
		rows[i] = table.Row(r)
	}

	styles := table.DefaultStyles()
	styles.Header = TableHeaderStyle
	styles.Selected = TableSelectedStyle

	visible := max(1, height-footerHeight)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(visible),
		table.WithWidth(width),
		table.WithStyles(styles),
	)
	return lipgloss.JoinVertical(lipgloss.Left, t.View(), shapeLine(len(out.Rows), len(out.Columns)))
}

// renderGrid draws the data grid as a ruled lipgloss table.
func renderGrid(out *render.GridOutput, width, height int) string {
	if len(out.Columns) == 0 {
		return SubtleStyle.Render("empty grid")
	}
	visible := max(1, (height-footerHeight)/2) //nolint:mnd // each grid row takes a line plus a rule
	shown := out.Rows
	if len(shown) > visible {
		shown = shown[:visible]
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		BorderRow(true).
		Headers(out.Columns...).
		Rows(shown...).
		Width(width).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return HeaderStyle
			}
			return lipgloss.NewStyle()
		})
	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), shapeLine(len(out.Rows), len(out.Columns)))
}

func shapeLine(rows, cols int) string {
	return SubtleStyle.Render(printer.Sprintf("%d rows × %d columns", rows, cols))
}

// RenderRow lays the cards of a row side by side, sharing width equally.
func RenderRow(row layout.Row, results func(string) (runtime.Result, bool), width int, focused string) string {
	if len(row.Cards) == 0 {
		return ""
	}
	cardWidth := width / len(row.Cards)

	height := 0
	for _, c := range row.Cards {
		res, _ := results(c.Output)
		height = max(height, cardHeight(res))
	}

	rendered := make([]string, len(row.Cards))
	for i, c := range row.Cards {
		res, ran := results(c.Output)
		rendered[i] = RenderCard(c, res, ran, cardWidth, height, c.Output == focused)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderLayout renders all rows top to bottom and returns the line offset of each row.
func RenderLayout(l layout.Layout, results func(string) (runtime.Result, bool), width int, focused string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, len(l.Rows))
	line := 0
	for i, row := range l.Rows {
		offsets[i] = line
		r := RenderRow(row, results, width, focused)
		b.WriteString(r)
		b.WriteByte('\n')
		line += lipgloss.Height(r)
	}
	return b.String(), offsets
}

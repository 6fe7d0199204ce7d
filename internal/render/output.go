package render

import (
	"fmt"
	"strings"

	"github.com/rshade/cintel/internal/chart"
)

// Kind is the presentation contract of an output.
type Kind int

const (
	// KindTable is a row-oriented, read-only table.
	KindTable Kind = iota
	// KindGrid is a cell-addressable grid over the same data.
	KindGrid
	// KindChart is a drawn chart.
	KindChart
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindGrid:
		return "grid"
	case KindChart:
		return "chart"
	default:
		return "unknown"
	}
}

// Output is the value a binding produces. Outputs are never mutated after they are returned.
type Output interface {
	Kind() Kind
}

// TableOutput is the dataset as a row-oriented display.
type TableOutput struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Kind implements Output.
func (*TableOutput) Kind() Kind { return KindTable }

// GridOutput is the dataset as a grid whose cells are individually addressable.
type GridOutput struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Kind implements Output.
func (*GridOutput) Kind() Kind { return KindGrid }

// Cell returns the cell at (row, col), or "" when out of range.
func (g *GridOutput) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col]
}

// ChartOutput carries computed chart data. Exactly one of Histogram, Scatter and Ridgeline is set.
type ChartOutput struct {
	Title string `json:"title"`
	// Backend names the histogram backend used to bin and draw Histogram.
	Backend   string           `json:"backend"`
	Histogram *chart.Histogram `json:"histogram,omitempty"`
	Scatter   *chart.Scatter   `json:"scatter,omitempty"`
	Ridgeline *chart.Ridgeline `json:"ridgeline,omitempty"`
}

// Kind implements Output.
func (*ChartOutput) Kind() Kind { return KindChart }

// View draws the chart into a width x height area.
func (c *ChartOutput) View(width, height int) string {
	switch {
	case c.Histogram != nil:
		backend, ok := chart.LookupBackend(c.Backend)
		if !ok {
			return fmt.Sprintf("unknown chart backend %q", c.Backend)
		}
		return backend.Draw(*c.Histogram, width, height)
	case c.Scatter != nil:
		return chart.DrawScatter(*c.Scatter, width, height)
	case c.Ridgeline != nil:
		return chart.DrawRidgeline(*c.Ridgeline, width, height)
	default:
		return ""
	}
}

// Describe returns a one-line textual summary of the chart.
func (c *ChartOutput) Describe() string {
	switch {
	case c.Histogram != nil:
		return chart.Summary(*c.Histogram)
	case c.Scatter != nil:
		s := c.Scatter
		return fmt.Sprintf("%s vs %s by %s: %d points (%s), %d dropped",
			s.Y, s.X, s.Color, s.Len(), strings.Join(s.SeriesNames(), ", "), s.Dropped)
	case c.Ridgeline != nil:
		return fmt.Sprintf("%s by month: %d ridges, bin step %g", c.Ridgeline.Field, len(c.Ridgeline.Ridges), c.Ridgeline.Step)
	default:
		return c.Title
	}
}

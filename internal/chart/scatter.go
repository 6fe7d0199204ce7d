package chart

import (
	"math"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"
)

// Point is one (x, y) observation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is the points sharing one color category.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Scatter is a scatter plot of two numeric columns colored by a categorical column.
type Scatter struct {
	X       string   `json:"x"`
	Y       string   `json:"y"`
	Color   string   `json:"color"`
	Series  []Series `json:"series"`
	Dropped int      `json:"dropped"`
}

// NewScatter groups (xs[i], ys[i]) by groups[i]. Rows where x or y is missing or infinite are dropped;
// a missing group is reported under "NA". Series are ordered by first appearance.
func NewScatter(x, y, color string, xs, ys []float64, groups []string) Scatter {
	s := Scatter{X: x, Y: y, Color: color}
	index := map[string]int{}

	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			s.Dropped++
			continue
		}
		g := groups[i]
		if g == "" {
			g = "NA"
		}
		k, ok := index[g]
		if !ok {
			k = len(s.Series)
			index[g] = k
			s.Series = append(s.Series, Series{Name: g})
		}
		s.Series[k].Points = append(s.Series[k].Points, Point{X: xs[i], Y: ys[i]})
	}
	return s
}

// Len returns the number of plotted points.
func (s Scatter) Len() int {
	n := 0
	for _, ser := range s.Series {
		n += len(ser.Points)
	}
	return n
}

// Bounds returns the extent of all plotted points.
func (s Scatter) Bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, ser := range s.Series {
		for _, p := range ser.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if s.Len() == 0 {
		return 0, 1, 0, 1
	}
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}
	if minY == maxY {
		minY, maxY = minY-1, maxY+1
	}
	return minX, maxX, minY, maxY
}

//nolint:gochecknoglobals // Categorical palette for scatter series.
var seriesPalette = []lipgloss.Color{"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a", "#19d3f3"}

// seriesStyle returns the color of the i-th category.
func seriesStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(seriesPalette[i%len(seriesPalette)])
}

// DrawScatter draws s on an ntcharts line chart canvas with a legend line below.
func DrawScatter(s Scatter, width, height int) string {
	const legendRows = 1
	if width < 1 || height <= legendRows {
		return ""
	}

	minX, maxX, minY, maxY := s.Bounds()
	lc := linechart.New(width, height-legendRows, minX, maxX, minY, maxY)
	lc.DrawXYAxisAndLabel()

	for i, ser := range s.Series {
		style := seriesStyle(i)
		for _, p := range ser.Points {
			scaled := lc.ScaleFloat64Point(canvas.Float64Point{X: p.X, Y: p.Y})
			lc.Canvas.SetRuneWithStyle(canvas.CanvasPointFromFloat64Point(lc.Origin(), scaled), '●', style)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lc.View(), Legend(s))
}

// Legend renders the category legend of a scatter plot.
func Legend(s Scatter) string {
	parts := make([]string, 0, len(s.Series))
	for i, ser := range s.Series {
		parts = append(parts, seriesStyle(i).Render("●")+" "+ser.Name)
	}
	return s.Color + ": " + strings.Join(parts, "  ")
}

// SeriesNames returns the category names in legend order.
func (s Scatter) SeriesNames() []string {
	names := make([]string, len(s.Series))
	for i, ser := range s.Series {
		names[i] = ser.Name
	}
	return slices.Clip(names)
}

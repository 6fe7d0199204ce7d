package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
)

// Backend names.
const (
	BackendBarChart  = "barchart"
	BackendSparkline = "sparkline"
)

// minChartHeight leaves room for at least one bar row above the range axis.
const minChartHeight = 2

// HistogramBackend bins a numeric column and draws the result.
// Backends accept the same (column, bin count) inputs; their bin edge rules may differ.
type HistogramBackend interface {
	Name() string
	Bin(column string, values []float64, n int) (Histogram, error)
	Draw(h Histogram, width, height int) string
}

// LookupBackend returns the histogram backend registered under name.
func LookupBackend(name string) (HistogramBackend, bool) {
	switch name {
	case BackendBarChart:
		return BarChart{}, true
	case BackendSparkline:
		return Sparkline{}, true
	default:
		return nil, false
	}
}

//nolint:gochecknoglobals // Shared chart styles.
var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	sparkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// BarChart draws histograms with ntcharts bar charts. Bins are closed on the left.
type BarChart struct{}

// Name implements HistogramBackend.
func (BarChart) Name() string { return BackendBarChart }

// Bin implements HistogramBackend.
func (BarChart) Bin(column string, values []float64, n int) (Histogram, error) {
	return NewHistogram(column, values, n, ClosedLeft)
}

// Draw implements HistogramBackend.
func (BarChart) Draw(h Histogram, width, height int) string {
	if width < 1 || height < minChartHeight || len(h.Bins) == 0 {
		return ""
	}

	data := make([]barchart.BarData, len(h.Bins))
	for i, b := range h.Bins {
		data[i] = barchart.BarData{
			Values: []barchart.BarValue{{Name: h.Column, Value: float64(b.Count), Style: barStyle}},
		}
	}

	bc := barchart.New(max(width, len(h.Bins)), height-1)
	bc.PushAll(data)
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), rangeAxis(h, width))
}

// Sparkline draws histograms as ntcharts sparklines. Bins are closed on the right.
type Sparkline struct{}

// Name implements HistogramBackend.
func (Sparkline) Name() string { return BackendSparkline }

// Bin implements HistogramBackend.
func (Sparkline) Bin(column string, values []float64, n int) (Histogram, error) {
	return NewHistogram(column, values, n, ClosedRight)
}

// Draw implements HistogramBackend. Each bin is widened to an equal number of columns.
func (Sparkline) Draw(h Histogram, width, height int) string {
	if width < 1 || height < minChartHeight || len(h.Bins) == 0 {
		return ""
	}

	repeat := max(1, width/len(h.Bins))
	counts := make([]float64, 0, repeat*len(h.Bins))
	for _, b := range h.Bins {
		for range repeat {
			counts = append(counts, float64(b.Count))
		}
	}

	sl := sparkline.New(len(counts), height-1)
	sl.PushAll(counts)
	sl.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, sparkStyle.Render(sl.View()), rangeAxis(h, width))
}

// rangeAxis renders the observed range under a histogram: low edge left, high edge right.
func rangeAxis(h Histogram, width int) string {
	lo := formatEdge(h.Bins[0].Lo)
	hi := formatEdge(h.Bins[len(h.Bins)-1].Hi)
	gap := width - len(lo) - len(hi)
	if gap < 1 {
		return axisStyle.Render(lo + " " + hi)
	}
	return axisStyle.Render(lo + strings.Repeat(" ", gap) + hi)
}

func formatEdge(v float64) string {
	const precision = 2
	s := strconv.FormatFloat(v, 'f', precision, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Summary renders a one-line textual description of a histogram.
func Summary(h Histogram) string {
	if len(h.Bins) == 0 {
		return h.Column + ": no bins"
	}
	return fmt.Sprintf("%s: %d bins over [%s, %s], %d values, %d missing",
		h.Column, len(h.Bins), formatEdge(h.Bins[0].Lo), formatEdge(h.Bins[len(h.Bins)-1].Hi),
		h.Total(), h.Missing)
}

package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultMaxBins is the bin budget of the ridgeline "nice" binning.
const DefaultMaxBins = 10

// Ridge is the binned distribution of one month.
type Ridge struct {
	Month time.Month `json:"month"`
	// Mean is the mean of the raw values in this month.
	Mean float64 `json:"mean"`
	// Bins spans the shared nice extent; empty bins have a zero count.
	Bins []Bin `json:"bins"`
}

// Ridgeline is a per-month distribution of one value column.
type Ridgeline struct {
	Field  string  `json:"field"`
	Start  float64 `json:"start"`
	Stop   float64 `json:"stop"`
	Step   float64 `json:"step"`
	Ridges []Ridge `json:"ridges"`
}

// NewRidgeline runs the ridgeline aggregation pipeline:
// Month = month(date); Mean = mean(value) per Month; value binned with nice bins of at most
// maxBins over the whole extent; count per (Month, Mean, bin). Rows with a zero date or a non-finite
// value are skipped. Months without data are omitted; ridges are ordered January..December.
func NewRidgeline(field string, dates []time.Time, values []float64, maxBins int) (Ridgeline, error) {
	if len(dates) != len(values) {
		return Ridgeline{}, fmt.Errorf("ridgeline: %d dates but %d values", len(dates), len(values))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		if dates[i].IsZero() || !finite(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return Ridgeline{Field: field}, nil
	}

	start, stop, step := NiceBins(lo, hi, maxBins)
	n := max(1, int(math.Round((stop-start)/step)))

	r := Ridgeline{Field: field, Start: start, Stop: stop, Step: step}
	var sums [13]float64
	var counts [13]int
	var bins [13][]Bin

	for i, v := range values {
		if dates[i].IsZero() || !finite(v) {
			continue
		}
		m := dates[i].Month()
		if bins[m] == nil {
			bins[m] = make([]Bin, n)
			for k := range bins[m] {
				bins[m][k] = Bin{Lo: start + float64(k)*step, Hi: start + float64(k+1)*step}
			}
		}
		sums[m] += v
		counts[m]++
		bins[m][niceBinIndex(v, start, stop, step, n)].Count++
	}

	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		r.Ridges = append(r.Ridges, Ridge{Month: m, Mean: sums[m] / float64(counts[m]), Bins: bins[m]})
	}
	return r, nil
}

// niceBinIndex clamps v into [start, stop - step] before flooring so the stop edge
// falls into the last bin.
func niceBinIndex(v, start, stop, step float64, n int) int {
	const epsilon = 1e-14
	v = math.Max(start, math.Min(v, stop-step))
	return max(0, min(n-1, int(math.Floor(epsilon+(v-start)/step))))
}

// NiceBins chooses a human-friendly step (a power of ten divided by 1, 2 or 5) so that
// [lo, hi] is covered by at most maxBins bins, and snaps the extent to multiples of the step.
func NiceBins(lo, hi float64, maxBins int) (start, stop, step float64) {
	const base = 10.0
	if maxBins < 1 {
		maxBins = DefaultMaxBins
	}
	span := hi - lo
	if span <= 0 {
		span = math.Abs(lo)
		if span == 0 {
			span = 1
		}
	}

	maxb := float64(maxBins)
	level := math.Ceil(math.Log(maxb) / math.Log(base))
	step = math.Pow(base, math.Round(math.Log(span)/math.Log(base))-level)
	for math.Ceil(span/step) > maxb {
		step *= base
	}
	for _, div := range []float64{5, 2} {
		if v := step / div; span/v <= maxb {
			step = v
		}
	}

	precision := 0.0
	if v := math.Log10(step); v < 0 {
		precision = math.Trunc(-v) + 1
	}
	eps := math.Pow(base, -precision-1)

	start = math.Floor(lo/step+eps) * step
	if lo < start {
		start -= step
	}
	stop = math.Ceil(hi/step) * step
	if stop <= start {
		stop = start + step
	}
	return start, stop, step
}

// Temperature color domain of the ridgeline fill: hot (red) to cold (blue).
const (
	ridgeHot  = 30.0
	ridgeCold = 5.0
)

//nolint:gochecknoglobals // Red-yellow-blue diverging scheme stops.
var ridgeStops = []string{"#a50026", "#ffffbf", "#313695"}

// RidgeColor maps a mean value onto the red-yellow-blue scale over the domain [30, 5].
func RidgeColor(mean float64) lipgloss.Color {
	t := (ridgeHot - mean) / (ridgeHot - ridgeCold)
	t = math.Max(0, math.Min(1, t))

	lo, _ := colorful.Hex(ridgeStops[0])
	mid, _ := colorful.Hex(ridgeStops[1])
	hi, _ := colorful.Hex(ridgeStops[2])

	var c colorful.Color
	if t <= 0.5 { //nolint:mnd // Midpoint of the diverging scale.
		c = lo.BlendLab(mid, t*2) //nolint:mnd // Rescale half-domain to [0, 1].
	} else {
		c = mid.BlendLab(hi, (t-0.5)*2) //nolint:mnd // Rescale half-domain to [0, 1].
	}
	return lipgloss.Color(c.Clamped().Hex())
}

// DrawRidgeline draws one row per month: a month label followed by a colored sparkline
// of the bin counts. Rows are height units tall, split evenly across ridges.
func DrawRidgeline(r Ridgeline, width, height int) string {
	const labelWidth = 4
	if len(r.Ridges) == 0 {
		return "no data"
	}
	plotWidth := width - labelWidth
	if plotWidth < 1 || height < 1 {
		return ""
	}

	rowHeight := max(1, height/len(r.Ridges))
	n := len(r.Ridges[0].Bins)
	repeat := max(1, plotWidth/n)

	peak := 0
	for _, ridge := range r.Ridges {
		for _, b := range ridge.Bins {
			peak = max(peak, b.Count)
		}
	}

	rows := make([]string, 0, len(r.Ridges))
	for _, ridge := range r.Ridges {
		counts := make([]float64, 0, n*repeat)
		for _, b := range ridge.Bins {
			for range repeat {
				counts = append(counts, float64(b.Count))
			}
		}

		sl := sparkline.New(len(counts), rowHeight, sparkline.WithMaxValue(float64(peak)))
		sl.PushAll(counts)
		sl.Draw()

		label := fmt.Sprintf("%-*s", labelWidth, ridge.Month.String()[:3])
		style := lipgloss.NewStyle().Foreground(RidgeColor(ridge.Mean))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, label, style.Render(sl.View())))
	}

	axis := strings.Repeat(" ", labelWidth) + fmt.Sprintf("%s .. %s", formatEdge(r.Start), formatEdge(r.Stop))
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, axisStyle.Render(axis))...)
}

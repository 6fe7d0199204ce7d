package chart

import (
	"fmt"
	"math"
	"slices"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidBins indicates a bin count below one.
const ErrInvalidBins = constError("bin count must be positive")

// Closed selects which edge of a bin is inclusive.
type Closed int

const (
	// ClosedLeft bins are [lo, hi); the last bin also includes its right edge.
	ClosedLeft Closed = iota
	// ClosedRight bins are (lo, hi]; the first bin also includes its left edge.
	ClosedRight
)

// Bin is one histogram bar.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram is a binned-frequency summary of one numeric column.
type Histogram struct {
	Column  string `json:"column"`
	Closed  Closed `json:"closed"`
	Bins    []Bin  `json:"bins"`
	Missing int    `json:"missing"`
}

// Total returns the sum of bin frequencies.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}

// MaxCount returns the largest bin frequency.
func (h Histogram) MaxCount() int {
	m := 0
	for _, b := range h.Bins {
		m = max(m, b.Count)
	}
	return m
}

// NewHistogram bins values into exactly n equal-width bins spanning the observed
// [min, max] of the finite values. NaN and infinite values are counted as missing.
// A constant column is widened by 0.5 on each side; a column with no values spans [0, 1].
func NewHistogram(column string, values []float64, n int, closed Closed) (Histogram, error) {
	if n < 1 {
		return Histogram{}, fmt.Errorf("%w: got %d", ErrInvalidBins, n)
	}

	present := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			present = append(present, v)
		}
	}

	lo, hi := 0.0, 1.0
	if len(present) > 0 {
		lo, hi = slices.Min(present), slices.Max(present)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5 //nolint:mnd // Half-unit padding around a constant column.
	}

	edges := make([]float64, n+1)
	width := (hi - lo) / float64(n)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[n] = hi

	h := Histogram{
		Column:  column,
		Closed:  closed,
		Bins:    make([]Bin, n),
		Missing: len(values) - len(present),
	}
	for i := range h.Bins {
		h.Bins[i] = Bin{Lo: edges[i], Hi: edges[i+1]}
	}
	for _, v := range present {
		h.Bins[binIndex(edges, v, closed)].Count++
	}
	return h, nil
}

// binIndex locates v among edges; v is assumed to lie within [edges[0], edges[n]].
func binIndex(edges []float64, v float64, closed Closed) int {
	n := len(edges) - 1
	width := (edges[n] - edges[0]) / float64(n)

	var i int
	if closed == ClosedLeft {
		i = int(math.Floor((v - edges[0]) / width))
	} else {
		i = int(math.Ceil((v-edges[0])/width)) - 1
	}
	i = max(0, min(n-1, i))

	// Correct for floating point error at the edges.
	if closed == ClosedLeft {
		for i > 0 && v < edges[i] {
			i--
		}
		for i < n-1 && v >= edges[i+1] {
			i++
		}
	} else {
		for i > 0 && v <= edges[i] {
			i--
		}
		for i < n-1 && v > edges[i+1] {
			i++
		}
	}
	return i
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Package chart computes chart data (histograms, scatter series, ridgelines) and draws
// it in the terminal with ntcharts.
//
// Computation and drawing are split: the New* functions are pure and deterministic,
// so render outputs can be compared for equality, while the Draw* functions and the
// HistogramBackend implementations turn that data into text for a given card size.
//
// Two histogram backends exist side by side. BarChart bins [lo, hi) and draws ntcharts
// bar charts; Sparkline bins (lo, hi] and draws ntcharts sparklines. Both accept the
// same column and bin count and both produce exactly the requested number of bins.
package chart

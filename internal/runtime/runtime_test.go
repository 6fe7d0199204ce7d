package runtime

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cintel/internal/dashboard"
	"github.com/rshade/cintel/internal/dataset"
	"github.com/rshade/cintel/internal/layout"
	"github.com/rshade/cintel/internal/metrics"
	"github.com/rshade/cintel/internal/render"
	"github.com/rshade/cintel/internal/widget"
)

func penguins(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	sources, err := dashboard.Sources(dashboard.NamePenguins)
	require.NoError(t, err)
	tables, err := dataset.LoadAll(context.Background(), sources)
	require.NoError(t, err)
	def, err := dashboard.Build(dashboard.NamePenguins, tables)
	require.NoError(t, err)

	rt, err := New(def, opts...)
	require.NoError(t, err)
	_, err = rt.Start(context.Background())
	require.NoError(t, err)
	return rt
}

func renders(t *testing.T, rt *Runtime) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	for _, id := range rt.Definition().Registry.IDs() {
		res, ok := rt.Result(id)
		require.True(t, ok, id)
		counts[id] = res.Renders
	}
	return counts
}

func TestStart_RendersEverything(t *testing.T) {
	rt := penguins(t)
	for id, n := range renders(t, rt) {
		assert.Equal(t, 1, n, id)
		res, _ := rt.Result(id)
		require.NoError(t, res.Err, id)
		assert.NotNil(t, res.Output, id)
	}

	res, _ := rt.Result(dashboard.OutputPlotly)
	h := res.Output.(*render.ChartOutput).Histogram
	assert.Equal(t, "bill_length_mm", h.Column)
	assert.Len(t, h.Bins, 20)
}

func TestSet_OnlyDependentsRerender(t *testing.T) {
	tests := []struct {
		name   string
		widget string
		value  widget.Value
		want   []string
	}{
		{
			name:   "attribute drives both histograms",
			widget: dashboard.WidgetAttribute,
			value:  widget.Text("body_mass_g"),
			want:   []string{dashboard.OutputPlotly, dashboard.OutputSeaborn},
		},
		{
			name:   "seaborn bins drive only the sparkline",
			widget: dashboard.WidgetSeabornBins,
			value:  widget.Number(50),
			want:   []string{dashboard.OutputSeaborn},
		},
		{
			name:   "plotly bins drive only the bar chart",
			widget: dashboard.WidgetPlotlyBins,
			value:  widget.Number(7),
			want:   []string{dashboard.OutputPlotly},
		},
		{
			name:   "species filter is accepted but drives nothing",
			widget: dashboard.WidgetSpecies,
			value:  widget.NewSet("Gentoo", "Chinstrap"),
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := penguins(t)
			before := renders(t, rt)

			got, err := rt.Set(context.Background(), tt.widget, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			after := renders(t, rt)
			for id, n := range after {
				if slices.Contains(tt.want, id) {
					assert.Equal(t, before[id]+1, n, id)
				} else {
					assert.Equal(t, before[id], n, id)
				}
			}

			v, ok := rt.Value(tt.widget)
			require.True(t, ok)
			assert.True(t, v.Equal(tt.value))
		})
	}
}

func TestSet_SeabornBinsRebinsSparkline(t *testing.T) {
	rt := penguins(t)
	plotlyBefore, _ := rt.Result(dashboard.OutputPlotly)

	_, err := rt.Set(context.Background(), dashboard.WidgetSeabornBins, widget.Number(50))
	require.NoError(t, err)

	seaborn, _ := rt.Result(dashboard.OutputSeaborn)
	assert.Len(t, seaborn.Output.(*render.ChartOutput).Histogram.Bins, 50)

	plotlyAfter, _ := rt.Result(dashboard.OutputPlotly)
	assert.Same(t, plotlyBefore.Output, plotlyAfter.Output, "bar chart was not recomputed")
}

func TestSet_UnchangedValueIsNoop(t *testing.T) {
	rt := penguins(t)
	before := renders(t, rt)

	got, err := rt.Set(context.Background(), dashboard.WidgetAttribute, widget.Text("bill_length_mm"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, before, renders(t, rt))

	// Set equality ignores order.
	got, err = rt.Set(context.Background(), dashboard.WidgetSpecies, widget.NewSet("Adelie"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSet_Rejections(t *testing.T) {
	rt := penguins(t)
	before := rt.State()

	_, err := rt.Set(context.Background(), "selected_island", widget.Text("Dream"))
	require.ErrorIs(t, err, ErrUnknownWidget)

	_, err = rt.Set(context.Background(), dashboard.WidgetSeabornBins, widget.Number(101))
	require.ErrorIs(t, err, widget.ErrOutOfDomain)

	_, err = rt.Set(context.Background(), dashboard.WidgetPlotlyBins, widget.Number(0))
	require.ErrorIs(t, err, widget.ErrOutOfDomain)

	_, err = rt.Set(context.Background(), dashboard.WidgetAttribute, widget.Text("species"))
	require.ErrorIs(t, err, widget.ErrOutOfDomain)

	_, err = rt.SetString(context.Background(), dashboard.WidgetPlotlyBins, "lots")
	require.ErrorIs(t, err, widget.ErrOutOfDomain)

	assert.True(t, before.Equal(rt.State()), "rejected changes leave state untouched")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rt.Set(ctx, dashboard.WidgetPlotlyBins, widget.Number(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetString(t *testing.T) {
	rt := penguins(t)
	got, err := rt.SetString(context.Background(), dashboard.WidgetPlotlyBins, "42")
	require.NoError(t, err)
	assert.Equal(t, []string{dashboard.OutputPlotly}, got)

	res, _ := rt.Result(dashboard.OutputPlotly)
	assert.Len(t, res.Output.(*render.ChartOutput).Histogram.Bins, 42)
}

// faulty builds a dashboard whose bindings fail on demand.
func faulty(t *testing.T) *dashboard.Definition {
	t.Helper()
	modeFn := func(_ context.Context, in render.Inputs) (render.Output, error) {
		mode, err := in.Text("mode")
		if err != nil {
			return nil, err
		}
		switch mode {
		case "fail":
			return nil, errors.New("render failed")
		case "panic":
			panic("kaboom")
		}
		return &render.TableOutput{Columns: []string{"mode"}, Rows: [][]string{{mode}}}, nil
	}
	steadyFn := func(context.Context, render.Inputs) (render.Output, error) {
		return &render.TableOutput{Columns: []string{"ok"}}, nil
	}

	reg, err := render.NewRegistry(
		render.Binding{ID: "flaky", Kind: render.KindTable, Deps: []string{"mode"}, Fn: modeFn},
		render.Binding{ID: "steady", Kind: render.KindTable, Fn: steadyFn},
	)
	require.NoError(t, err)

	return &dashboard.Definition{
		Name: "faulty",
		Panel: widget.Panel{Widgets: []widget.Widget{
			widget.Selectize("mode", "Mode", []string{"ok", "fail", "panic"}, "ok"),
		}},
		Registry: reg,
		Layout:   layout.New(layout.Columns(layout.Output("flaky"), layout.Output("steady"))),
	}
}

func TestRuntime_ErrorIsolation(t *testing.T) {
	var logs bytes.Buffer
	rec := metrics.NewRecorder()
	rt, err := New(faulty(t), WithLogger(zerolog.New(&logs)), WithMetrics(rec))
	require.NoError(t, err)
	_, err = rt.Start(context.Background())
	require.NoError(t, err)

	for _, mode := range []string{"fail", "panic"} {
		_, err = rt.Set(context.Background(), "mode", widget.Text(mode))
		require.NoError(t, err, "binding failures never escape Set")

		flaky, _ := rt.Result("flaky")
		require.Error(t, flaky.Err, mode)
		assert.Nil(t, flaky.Output)

		steady, _ := rt.Result("steady")
		require.NoError(t, steady.Err)
		assert.NotNil(t, steady.Output)
		assert.Equal(t, 1, steady.Renders)
	}

	flaky, _ := rt.Result("flaky")
	assert.ErrorIs(t, flaky.Err, ErrBindingPanic)
	assert.Contains(t, flaky.Err.Error(), "kaboom")

	_, err = rt.Set(context.Background(), "mode", widget.Text("ok"))
	require.NoError(t, err)
	flaky, _ = rt.Result("flaky")
	require.NoError(t, flaky.Err, "binding recovers on the next good input")
	assert.Equal(t, 4, flaky.Renders)

	assert.Contains(t, logs.String(), "render failed")
	expected := `
# HELP cintel_render_total Render binding invocations by output and status.
# TYPE cintel_render_total counter
cintel_render_total{output="flaky",status="error"} 2
cintel_render_total{output="flaky",status="ok"} 2
cintel_render_total{output="steady",status="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "cintel_render_total"))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	def := faulty(t)
	def.Layout = layout.New(layout.Columns(layout.Output("flaky")))
	_, err = New(def)
	assert.Error(t, err, "every output must be placed")
}

func TestResult_BeforeStart(t *testing.T) {
	rt, err := New(faulty(t))
	require.NoError(t, err)
	_, ok := rt.Result("flaky")
	assert.False(t, ok)
}

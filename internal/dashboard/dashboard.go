// Package dashboard is the composition root of the dashboards: it declares each dashboard's
// widget panel, registers its render bindings against injected datasets, and arranges
// them into a layout.
package dashboard

import (
	"fmt"
	"slices"

	"github.com/rshade/cintel/internal/chart"
	"github.com/rshade/cintel/internal/dataset"
	"github.com/rshade/cintel/internal/layout"
	"github.com/rshade/cintel/internal/render"
	"github.com/rshade/cintel/internal/widget"
)

// Dashboard names.
const (
	NamePenguins = "penguins"
	NameTips     = "tips"
)

// Widget ids shared by both dashboards.
const (
	WidgetAttribute   = "selected_attribute"
	WidgetPlotlyBins  = "plotly_bin_count"
	WidgetSeabornBins = "seaborn_bin_count"
	WidgetSpecies     = "selected_species_list"
	WidgetDays        = "selected_day_list"
)

// Output ids.
const (
	OutputTable     = "table"
	OutputGrid      = "grid"
	OutputPlotly    = "plotly_hist"
	OutputSeaborn   = "seaborn_hist"
	OutputScatter   = "plotly_scatterplot"
	OutputRidgeline = "altair_ridgeline"
)

// Dataset names a definition is built from.
const (
	DataPenguins = "penguins"
	DataTips     = "tips"
	DataWeather  = "weather"
)

// Bin widget domains.
const (
	defaultBins    = 20
	maxNumericBins = 500
	maxSliderBins  = 100
)

const repoURL = "https://github.com/brianpereboom/cintel-02-data"

// Definition is a complete dashboard: panel, bindings and layout.
type Definition struct {
	Name     string
	Title    string
	Panel    widget.Panel
	Registry *render.Registry
	Layout   layout.Layout
}

// Validate checks the panel, that every binding dependency is a declared widget,
// and that the layout places exactly the registered outputs.
func (d *Definition) Validate() error {
	if err := d.Panel.Validate(); err != nil {
		return fmt.Errorf("dashboard %q: %w", d.Name, err)
	}
	for _, b := range d.Registry.Bindings() {
		for _, dep := range b.Deps {
			if _, ok := d.Panel.Lookup(dep); !ok {
				return fmt.Errorf("dashboard %q: binding %q depends on undeclared widget %q", d.Name, b.ID, dep)
			}
		}
	}
	if err := d.Layout.Validate(d.Registry.IDs()); err != nil {
		return fmt.Errorf("dashboard %q: %w", d.Name, err)
	}
	for _, id := range d.Registry.IDs() {
		if !slices.Contains(d.Layout.Outputs(), id) {
			return fmt.Errorf("dashboard %q: output %q is not placed in the layout", d.Name, id)
		}
	}
	return nil
}

// Names returns the known dashboard names.
func Names() []string { return []string{NamePenguins, NameTips} }

// Sources returns the default source identifier of every dataset a dashboard needs.
func Sources(name string) (map[string]string, error) {
	switch name {
	case NamePenguins:
		return map[string]string{
			DataPenguins: dataset.BuiltinSource(dataset.BuiltinPenguins),
			DataWeather:  dataset.BuiltinSource(dataset.BuiltinWeather),
		}, nil
	case NameTips:
		return map[string]string{DataTips: dataset.BuiltinSource(dataset.BuiltinTips)}, nil
	default:
		return nil, fmt.Errorf("unknown dashboard %q (known: %v)", name, Names())
	}
}

// Build constructs the named dashboard from loaded tables keyed by dataset name.
func Build(name string, tables map[string]*dataset.Table) (*Definition, error) {
	need := func(key string) (*dataset.Table, error) {
		t, ok := tables[key]
		if !ok || t == nil {
			return nil, fmt.Errorf("dashboard %q needs dataset %q", name, key)
		}
		return t, nil
	}

	switch name {
	case NamePenguins:
		penguins, err := need(DataPenguins)
		if err != nil {
			return nil, err
		}
		weather, err := need(DataWeather)
		if err != nil {
			return nil, err
		}
		return Penguins(penguins, weather)
	case NameTips:
		tips, err := need(DataTips)
		if err != nil {
			return nil, err
		}
		return Tips(tips)
	default:
		return nil, fmt.Errorf("unknown dashboard %q (known: %v)", name, Names())
	}
}

// binWidgets declares the two bin-count inputs: a numeric input for the bar chart histogram
// and a slider for the sparkline histogram.
func binWidgets() []widget.Widget {
	return []widget.Widget{
		widget.NumericInput(WidgetPlotlyBins, "Plotly Bins", defaultBins, 1, maxNumericBins, 1),
		widget.Slider(WidgetSeabornBins, "Seaborn Bins", 1, maxSliderBins, defaultBins, 1),
	}
}

// histograms registers the two histogram backends side by side over the same column input.
func histograms(t *dataset.Table) []render.Binding {
	return []render.Binding{
		render.Histogram(OutputPlotly, t, chart.BarChart{}, WidgetAttribute, WidgetPlotlyBins),
		render.Histogram(OutputSeaborn, t, chart.Sparkline{}, WidgetAttribute, WidgetSeabornBins),
	}
}

// Penguins builds the penguin morphology dashboard. The species checkbox group is declared
// but no binding reads it.
func Penguins(penguins, weather *dataset.Table) (*Definition, error) {
	panel := widget.Panel{
		Title: "Sidebar",
		Widgets: append([]widget.Widget{
			widget.Selectize(WidgetAttribute, "Attribute",
				[]string{"bill_length_mm", "bill_depth_mm", "flipper_length_mm", "body_mass_g"}, "bill_length_mm"),
		}, append(binWidgets(),
			widget.CheckboxGroup(WidgetSpecies, "Species",
				[]string{"Adelie", "Gentoo", "Chinstrap"}, []string{"Adelie"}, true),
		)...),
		Links: []widget.Link{{Label: "GitHub", URL: repoURL}},
	}

	bindings := []render.Binding{
		render.DataTable(OutputTable, penguins),
		render.DataGrid(OutputGrid, penguins),
	}
	bindings = append(bindings, histograms(penguins)...)
	bindings = append(bindings,
		render.Scatter(OutputScatter, penguins, "bill_length_mm", "bill_depth_mm", "species"),
		render.Ridgeline(OutputRidgeline, weather, "date", "temp_max"),
	)

	reg, err := render.NewRegistry(bindings...)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Name:     NamePenguins,
		Title:    "Palmer Penguins",
		Panel:    panel,
		Registry: reg,
		Layout: layout.New(
			layout.Columns(layout.Output(OutputTable), layout.Output(OutputGrid)),
			layout.Columns(layout.Output(OutputPlotly), layout.Output(OutputSeaborn)),
			layout.FullScreenCard("Plotly Scatterplot: Species", OutputScatter),
			layout.FullScreenCard("Altair Ridgeline Plot", OutputRidgeline),
		),
	}
	if err = def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Tips builds the restaurant tipping dashboard. The day checkbox group is declared
// but no binding reads it.
func Tips(tips *dataset.Table) (*Definition, error) {
	panel := widget.Panel{
		Title: "Sidebar",
		Widgets: append([]widget.Widget{
			widget.Selectize(WidgetAttribute, "Attribute", []string{"total_bill", "tip", "size"}, "total_bill"),
		}, append(binWidgets(),
			widget.CheckboxGroup(WidgetDays, "Day", []string{"Thur", "Fri", "Sat", "Sun"}, []string{"Sun"}, true),
		)...),
		Links: []widget.Link{{Label: "GitHub", URL: repoURL}},
	}

	bindings := []render.Binding{
		render.DataTable(OutputTable, tips),
		render.DataGrid(OutputGrid, tips),
	}
	bindings = append(bindings, histograms(tips)...)
	bindings = append(bindings, render.Scatter(OutputScatter, tips, "total_bill", "tip", "time"))

	reg, err := render.NewRegistry(bindings...)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Name:     NameTips,
		Title:    "Restaurant Tips",
		Panel:    panel,
		Registry: reg,
		Layout: layout.New(
			layout.Columns(layout.Output(OutputTable), layout.Output(OutputGrid)),
			layout.Columns(layout.Output(OutputPlotly), layout.Output(OutputSeaborn)),
			layout.FullScreenCard("Plotly Scatterplot: Time", OutputScatter),
		),
	}
	if err = def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

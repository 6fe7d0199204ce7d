package render

import (
	"context"
	"fmt"

	"github.com/rshade/cintel/internal/chart"
	"github.com/rshade/cintel/internal/dataset"
)

// DataTable returns the tabular pass-through binding: the whole dataset, unmodified.
// It reads no widgets.
func DataTable(id string, t *dataset.Table) Binding {
	return Binding{
		ID:   id,
		Kind: KindTable,
		Fn: func(context.Context, Inputs) (Output, error) {
			return &TableOutput{Columns: t.Schema().Names(), Rows: t.Rows()}, nil
		},
	}
}

// DataGrid returns the grid pass-through binding: the same data under the grid contract.
// It reads no widgets.
func DataGrid(id string, t *dataset.Table) Binding {
	return Binding{
		ID:   id,
		Kind: KindGrid,
		Fn: func(context.Context, Inputs) (Output, error) {
			return &GridOutput{Columns: t.Schema().Names(), Rows: t.Rows()}, nil
		},
	}
}

// Histogram returns a parametrized histogram binding. It reads the column name from
// columnWidget and the bin count from binsWidget, and bins with backend.
// A column that is not in the schema fails with dataset.ErrInvalidColumn.
func Histogram(id string, t *dataset.Table, backend chart.HistogramBackend, columnWidget, binsWidget string) Binding {
	return Binding{
		ID:   id,
		Kind: KindChart,
		Deps: []string{columnWidget, binsWidget},
		Fn: func(_ context.Context, in Inputs) (Output, error) {
			column, err := in.Text(columnWidget)
			if err != nil {
				return nil, err
			}
			bins, err := in.Int(binsWidget)
			if err != nil {
				return nil, err
			}

			values, err := t.Numeric(column)
			if err != nil {
				return nil, err
			}
			h, err := backend.Bin(column, values, bins)
			if err != nil {
				return nil, fmt.Errorf("histogram of %q: %w", column, err)
			}
			return &ChartOutput{Title: column, Backend: backend.Name(), Histogram: &h}, nil
		},
	}
}

// Scatter returns a fixed-schema scatter binding: y against x, colored by a categorical column.
func Scatter(id string, t *dataset.Table, x, y, color string) Binding {
	return Binding{
		ID:   id,
		Kind: KindChart,
		Fn: func(context.Context, Inputs) (Output, error) {
			xs, err := t.Numeric(x)
			if err != nil {
				return nil, err
			}
			ys, err := t.Numeric(y)
			if err != nil {
				return nil, err
			}
			groups, err := t.Strings(color)
			if err != nil {
				return nil, err
			}
			for i, g := range groups {
				if g == dataset.MissingLabel {
					groups[i] = ""
				}
			}

			s := chart.NewScatter(x, y, color, xs, ys, groups)
			return &ChartOutput{Title: fmt.Sprintf("%s vs %s", y, x), Scatter: &s}, nil
		},
	}
}

// Ridgeline returns a fixed-schema ridgeline binding over a temporal and a numeric column.
func Ridgeline(id string, t *dataset.Table, dateColumn, valueColumn string) Binding {
	return Binding{
		ID:   id,
		Kind: KindChart,
		Fn: func(context.Context, Inputs) (Output, error) {
			dates, err := t.Times(dateColumn)
			if err != nil {
				return nil, err
			}
			values, err := t.Numeric(valueColumn)
			if err != nil {
				return nil, err
			}

			r, err := chart.NewRidgeline(valueColumn, dates, values, chart.DefaultMaxBins)
			if err != nil {
				return nil, err
			}
			return &ChartOutput{Title: valueColumn + " by month", Ridgeline: &r}, nil
		},
	}
}

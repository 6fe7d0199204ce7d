package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// column stores one typed column. Exactly one of the slices is populated.
type column struct {
	field Field
	nums  []float64
	strs  []string
	times []time.Time
}

// Table is an immutable in-memory table with named, typed columns.
// A Table is safe for concurrent reads; no method mutates it after construction,
// and every accessor returns a copy.
type Table struct {
	name   string
	schema Schema
	cols   []column
	rows   int
}

// New parses raw records against schema and returns an immutable table.
// Each record must have exactly len(schema) cells.
func New(name string, schema Schema, records [][]string) (*Table, error) {
	t := &Table{
		name:   name,
		schema: append(Schema(nil), schema...),
		cols:   make([]column, len(schema)),
		rows:   len(records),
	}

	for i, f := range schema {
		t.cols[i].field = f
		switch f.Type {
		case TypeNumeric:
			t.cols[i].nums = make([]float64, len(records))
		case TypeTemporal:
			t.cols[i].times = make([]time.Time, len(records))
		case TypeCategorical:
			t.cols[i].strs = make([]string, len(records))
		}
	}

	for r, rec := range records {
		if len(rec) != len(schema) {
			return nil, fmt.Errorf("table %q row %d: expected %d cells, got %d", name, r+1, len(schema), len(rec))
		}
		for c, cell := range rec {
			if err := t.cols[c].set(r, cell); err != nil {
				return nil, fmt.Errorf("table %q row %d: %w", name, r+1, err)
			}
		}
	}

	return t, nil
}

func (c *column) set(row int, cell string) error {
	cell = strings.TrimSpace(cell)
	missing := IsMissing(cell)
	switch c.field.Type {
	case TypeNumeric:
		if missing {
			c.nums[row] = math.NaN()
			return nil
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("column %q: %q is not a number", c.field.Name, cell)
		}
		if math.IsInf(v, 0) {
			// Infinities cannot be binned or plotted; they count as missing.
			v = math.NaN()
		}
		c.nums[row] = v
	case TypeTemporal:
		if missing {
			return nil
		}
		v, err := time.Parse(DateLayout, cell)
		if err != nil {
			return fmt.Errorf("column %q: %q is not a date", c.field.Name, cell)
		}
		c.times[row] = v
	case TypeCategorical:
		if !missing {
			c.strs[row] = cell
		}
	}
	return nil
}

// Name returns the table name (the source it was loaded from).
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Schema returns a copy of the table schema.
func (t *Table) Schema() Schema { return append(Schema(nil), t.schema...) }

// Column returns the field description of a column.
func (t *Table) Column(name string) (Field, error) {
	i := t.schema.Index(name)
	if i < 0 {
		return Field{}, newColumnError(t.name, name, t.schema.Names())
	}
	return t.schema[i], nil
}

// Numeric returns a copy of a numeric column; missing values are NaN.
func (t *Table) Numeric(name string) ([]float64, error) {
	f, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if f.Type != TypeNumeric {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, name, f.Type)
	}
	return append([]float64(nil), t.cols[t.schema.Index(name)].nums...), nil
}

// Strings returns a copy of a column rendered as display strings.
func (t *Table) Strings(name string) ([]string, error) {
	if _, err := t.Column(name); err != nil {
		return nil, err
	}
	c := t.schema.Index(name)
	out := make([]string, t.rows)
	for r := range out {
		out[r] = t.cell(r, c)
	}
	return out, nil
}

// Times returns a copy of a temporal column; missing values are the zero time.
func (t *Table) Times(name string) ([]time.Time, error) {
	f, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if f.Type != TypeTemporal {
		return nil, fmt.Errorf("column %q is %s, not temporal", name, f.Type)
	}
	return append([]time.Time(nil), t.cols[t.schema.Index(name)].times...), nil
}

// Cell returns the display string of a single cell.
func (t *Table) Cell(row, col int) (string, error) {
	if row < 0 || row >= t.rows || col < 0 || col >= len(t.cols) {
		return "", fmt.Errorf("cell (%d, %d) out of range for %dx%d table", row, col, t.rows, len(t.cols))
	}
	return t.cell(row, col), nil
}

// Rows returns every row as display strings, missing cells rendered as MissingLabel.
func (t *Table) Rows() [][]string {
	out := make([][]string, t.rows)
	for r := range out {
		row := make([]string, len(t.cols))
		for c := range row {
			row[c] = t.cell(r, c)
		}
		out[r] = row
	}
	return out
}

func (t *Table) cell(row, col int) string {
	c := t.cols[col]
	switch c.field.Type {
	case TypeNumeric:
		return formatNumber(c.nums[row])
	case TypeTemporal:
		if c.times[row].IsZero() {
			return MissingLabel
		}
		return c.times[row].Format(DateLayout)
	default:
		if c.strs[row] == "" {
			return MissingLabel
		}
		return c.strs[row]
	}
}

// NonMissing returns the finite values of vs.
func NonMissing(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the storage type of a table column.
type ColumnType int

const (
	// TypeCategorical columns hold labels; the empty string marks a missing value.
	TypeCategorical ColumnType = iota
	// TypeNumeric columns hold float64 values; NaN marks a missing value.
	TypeNumeric
	// TypeTemporal columns hold calendar dates; the zero time marks a missing value.
	TypeTemporal
)

// DateLayout is the textual layout of temporal cells.
const DateLayout = "2006-01-02"

// MissingLabel is how missing cells are displayed.
const MissingLabel = "NA"

// String returns the type name.
func (t ColumnType) String() string {
	switch t {
	case TypeNumeric:
		return "numeric"
	case TypeTemporal:
		return "temporal"
	case TypeCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Field describes one column of a schema.
type Field struct {
	Name string
	Type ColumnType
}

// Schema is the ordered list of fields of a table.
type Schema []Field

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named column or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether both schemas have the same fields in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Documented schemas of the builtin sources.
//
//nolint:gochecknoglobals // Fixed, documented schemas.
var (
	PenguinsSchema = Schema{
		{Name: "species", Type: TypeCategorical},
		{Name: "island", Type: TypeCategorical},
		{Name: "bill_length_mm", Type: TypeNumeric},
		{Name: "bill_depth_mm", Type: TypeNumeric},
		{Name: "flipper_length_mm", Type: TypeNumeric},
		{Name: "body_mass_g", Type: TypeNumeric},
		{Name: "sex", Type: TypeCategorical},
		{Name: "year", Type: TypeNumeric},
	}

	TipsSchema = Schema{
		{Name: "total_bill", Type: TypeNumeric},
		{Name: "tip", Type: TypeNumeric},
		{Name: "sex", Type: TypeCategorical},
		{Name: "smoker", Type: TypeCategorical},
		{Name: "day", Type: TypeCategorical},
		{Name: "time", Type: TypeCategorical},
		{Name: "size", Type: TypeNumeric},
	}

	WeatherSchema = Schema{
		{Name: "date", Type: TypeTemporal},
		{Name: "precipitation", Type: TypeNumeric},
		{Name: "temp_max", Type: TypeNumeric},
		{Name: "temp_min", Type: TypeNumeric},
		{Name: "wind", Type: TypeNumeric},
		{Name: "weather", Type: TypeCategorical},
	}
)

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan", "null":
		return true
	default:
		return false
	}
}

// InferSchema derives a schema from a header and raw records.
// A column is numeric if every non-missing cell parses as a float, temporal if every
// non-missing cell parses as a date, and categorical otherwise. A column with no
// non-missing cells is categorical.
func InferSchema(header []string, records [][]string) Schema {
	schema := make(Schema, len(header))
	for i, name := range header {
		schema[i] = Field{Name: strings.TrimSpace(name), Type: inferColumn(records, i)}
	}
	return schema
}

func inferColumn(records [][]string, col int) ColumnType {
	numeric, temporal, seen := true, true, false
	for _, rec := range records {
		if col >= len(rec) || IsMissing(rec[col]) {
			continue
		}
		seen = true
		cell := strings.TrimSpace(rec[col])
		if numeric {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
			}
		}
		if temporal {
			if _, err := time.Parse(DateLayout, cell); err != nil {
				temporal = false
			}
		}
		if !numeric && !temporal {
			return TypeCategorical
		}
	}
	switch {
	case !seen:
		return TypeCategorical
	case numeric:
		return TypeNumeric
	case temporal:
		return TypeTemporal
	default:
		return TypeCategorical
	}
}

// formatNumber renders a numeric cell the way the source wrote it where possible.
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return MissingLabel
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

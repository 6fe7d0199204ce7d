package dataset

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for dataset operations. Compare with errors.Is().
var (
	// ErrSourceUnavailable indicates a data source could not be opened or parsed.
	// Loading is fatal to dashboard startup.
	ErrSourceUnavailable = constError("data source unavailable")

	// ErrInvalidColumn indicates a column name that is not part of the table schema.
	ErrInvalidColumn = constError("invalid column")

	// ErrNotNumeric indicates a numeric accessor was used on a non-numeric column.
	ErrNotNumeric = constError("column is not numeric")

	// ErrSchemaMismatch indicates a builtin source whose header differs from its documented schema.
	ErrSchemaMismatch = constError("schema mismatch")
)

// maxSuggestionDistance bounds how different a suggested column name may be.
const maxSuggestionDistance = 3

// ColumnError reports a lookup of a column that does not exist.
// It matches ErrInvalidColumn via errors.Is.
type ColumnError struct {
	Table      string
	Name       string
	Suggestion string
}

func (e *ColumnError) Error() string {
	msg := fmt.Sprintf("%s: %q not in table %q", ErrInvalidColumn, e.Name, e.Table)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Unwrap returns ErrInvalidColumn.
func (e *ColumnError) Unwrap() error { return ErrInvalidColumn }

// newColumnError builds a ColumnError with the closest known column name, if any is close enough.
func newColumnError(table, name string, known []string) *ColumnError {
	return &ColumnError{Table: table, Name: name, Suggestion: closestName(name, known)}
}

func closestName(name string, known []string) string {
	candidates := append([]string(nil), known...)
	sort.Strings(candidates)

	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Package dataset loads the static tables a dashboard renders.
//
// A Table is loaded once at startup from a source identifier (an embedded builtin,
// a CSV file, or a sqlite table) and is never mutated afterwards: every render
// binding receives the same *Table and reads it through copying accessors.
//
// Load failures wrap ErrSourceUnavailable and are fatal to startup. Lookups of
// unknown columns fail with a *ColumnError that matches ErrInvalidColumn and, when a
// schema column is close enough, suggests it.
package dataset

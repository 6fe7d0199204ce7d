package widget

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Value is the current value of a widget: Text, Number, or Set.
type Value interface {
	// Equal reports whether two values are the same widget value.
	Equal(other Value) bool
	// String renders the value for display and logs.
	String() string

	isValue()
}

// Text is the value of a Selectize widget.
type Text string

// Equal implements Value.
func (t Text) Equal(other Value) bool {
	o, ok := other.(Text)
	return ok && o == t
}

func (t Text) String() string { return string(t) }
func (Text) isValue()         {}

// Number is the value of a Numeric or Slider widget.
type Number float64

// Equal implements Value.
func (n Number) Equal(other Value) bool {
	o, ok := other.(Number)
	return ok && o == n
}

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (Number) isValue()         {}

// Int returns the number rounded to the nearest integer.
func (n Number) Int() int { return int(math.Round(float64(n))) }

// Set is the value of a CheckboxGroup widget. Order is not significant.
type Set []string

// NewSet returns a set holding the given options.
func NewSet(options ...string) Set { return append(Set{}, options...) }

// Equal implements Value; two sets are equal when they hold the same options.
func (s Set) Equal(other Value) bool {
	o, ok := other.(Set)
	if !ok || len(o) != len(s) {
		return false
	}
	a, b := s.sorted(), o.sorted()
	return slices.Equal(a, b)
}

func (s Set) String() string { return strings.Join(s.sorted(), ",") }
func (Set) isValue()         {}

// Contains reports whether option is selected.
func (s Set) Contains(option string) bool { return slices.Contains(s, option) }

// Toggle returns a copy of s with option added or removed.
func (s Set) Toggle(option string) Set {
	if s.Contains(option) {
		out := make(Set, 0, len(s)-1)
		for _, o := range s {
			if o != option {
				out = append(out, o)
			}
		}
		return out
	}
	return append(append(Set{}, s...), option)
}

func (s Set) sorted() []string {
	out := append([]string(nil), s...)
	slices.Sort(out)
	return out
}

package widget

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrOutOfDomain indicates a value outside a widget's declared domain.
const ErrOutOfDomain = constError("value outside widget domain")

// Kind is the type of input control.
type Kind int

const (
	// KindSelectize is a dropdown over an enumerated list.
	KindSelectize Kind = iota
	// KindNumeric is a free numeric input constrained to a range.
	KindNumeric
	// KindSlider is a slider over a numeric range.
	KindSlider
	// KindCheckboxGroup is a set of toggleable options.
	KindCheckboxGroup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSelectize:
		return "selectize"
	case KindNumeric:
		return "numeric"
	case KindSlider:
		return "slider"
	case KindCheckboxGroup:
		return "checkbox_group"
	default:
		return "unknown"
	}
}

// Widget declares one input control: identifier, label, value domain and default.
// Widgets are plain values; the runtime owns their current state.
type Widget struct {
	ID    string
	Label string
	Kind  Kind

	// Options is the enumerated domain of Selectize and CheckboxGroup widgets.
	Options []string
	// Min, Max and Step bound Numeric and Slider widgets.
	Min, Max, Step float64
	// Inline lays checkbox options out on one line.
	Inline bool

	Default Value
}

// Selectize declares a dropdown with a selected default.
func Selectize(id, label string, options []string, selected string) Widget {
	return Widget{ID: id, Label: label, Kind: KindSelectize, Options: options, Default: Text(selected)}
}

// NumericInput declares a numeric input.
func NumericInput(id, label string, value, lo, hi, step float64) Widget {
	return Widget{ID: id, Label: label, Kind: KindNumeric, Min: lo, Max: hi, Step: step, Default: Number(value)}
}

// Slider declares a slider.
func Slider(id, label string, lo, hi, value, step float64) Widget {
	return Widget{ID: id, Label: label, Kind: KindSlider, Min: lo, Max: hi, Step: step, Default: Number(value)}
}

// CheckboxGroup declares a group of checkboxes with a selected default set.
func CheckboxGroup(id, label string, options, selected []string, inline bool) Widget {
	return Widget{
		ID: id, Label: label, Kind: KindCheckboxGroup,
		Options: options, Inline: inline, Default: NewSet(selected...),
	}
}

// Validate checks v against the widget's domain.
func (w Widget) Validate(v Value) error {
	switch w.Kind {
	case KindSelectize:
		t, ok := v.(Text)
		if !ok {
			return w.domainError(v, "expected one of the listed options")
		}
		if !slices.Contains(w.Options, string(t)) {
			return w.domainError(v, "choose one of "+strings.Join(w.Options, ", "))
		}
	case KindNumeric, KindSlider:
		n, ok := v.(Number)
		if !ok {
			return w.domainError(v, "expected a number")
		}
		f := float64(n)
		if math.IsNaN(f) || f < w.Min || f > w.Max {
			return w.domainError(v, fmt.Sprintf("must be within [%g, %g]", w.Min, w.Max))
		}
		if w.Step > 0 && !onStep(f, w.Min, w.Step) {
			return w.domainError(v, fmt.Sprintf("must be a multiple of %g from %g", w.Step, w.Min))
		}
	case KindCheckboxGroup:
		s, ok := v.(Set)
		if !ok {
			return w.domainError(v, "expected a set of options")
		}
		for _, o := range s {
			if !slices.Contains(w.Options, o) {
				return w.domainError(v, fmt.Sprintf("unknown option %q", o))
			}
		}
	}
	return nil
}

func onStep(v, lo, step float64) bool {
	const tolerance = 1e-9
	q := (v - lo) / step
	return math.Abs(q-math.Round(q)) < tolerance
}

func (w Widget) domainError(v Value, detail string) error {
	shown := "<nil>"
	if v != nil {
		shown = v.String()
	}
	return fmt.Errorf("%w: %s=%q: %s", ErrOutOfDomain, w.ID, shown, detail)
}

// Parse converts text (e.g. a CLI flag) into a value and validates it.
// Checkbox groups take a comma-separated list; an empty string is the empty set.
func (w Widget) Parse(s string) (Value, error) {
	var v Value
	switch w.Kind {
	case KindSelectize:
		v = Text(strings.TrimSpace(s))
	case KindNumeric, KindSlider:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: expected a number", ErrOutOfDomain, w.ID, s)
		}
		v = Number(f)
	case KindCheckboxGroup:
		set := Set{}
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" && !set.Contains(p) {
				set = append(set, p)
			}
		}
		v = set
	}
	if err := w.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Nudge moves a Selectize, Numeric or Slider value by delta positions, clamped to the domain.
// Checkbox groups are returned unchanged; use Set.Toggle.
func (w Widget) Nudge(v Value, delta int) Value {
	switch w.Kind {
	case KindSelectize:
		if len(w.Options) == 0 || v == nil {
			return v
		}
		i := slices.Index(w.Options, v.String())
		i = max(0, min(len(w.Options)-1, i+delta))
		return Text(w.Options[i])
	case KindNumeric, KindSlider:
		n, _ := v.(Number)
		step := w.Step
		if step <= 0 {
			step = 1
		}
		f := float64(n) + float64(delta)*step
		return Number(max(w.Min, min(w.Max, f)))
	default:
		return v
	}
}

// Describe renders the domain for help output.
func (w Widget) Describe() string {
	switch w.Kind {
	case KindSelectize:
		return "one of " + strings.Join(w.Options, ", ")
	case KindNumeric, KindSlider:
		return fmt.Sprintf("%g..%g step %g", w.Min, w.Max, w.Step)
	case KindCheckboxGroup:
		return "any of " + strings.Join(w.Options, ", ")
	default:
		return ""
	}
}

package widget

import (
	"fmt"
	"maps"
	"slices"
)

// Link is a static hyperlink shown in the sidebar.
type Link struct {
	Label string
	URL   string
}

// Panel is the sidebar: a title, the ordered widgets, and links.
type Panel struct {
	Title   string
	Widgets []Widget
	Links   []Link
}

// Lookup returns the widget with the given id.
func (p Panel) Lookup(id string) (Widget, bool) {
	for _, w := range p.Widgets {
		if w.ID == id {
			return w, true
		}
	}
	return Widget{}, false
}

// IDs returns widget ids in declaration order.
func (p Panel) IDs() []string {
	ids := make([]string, len(p.Widgets))
	for i, w := range p.Widgets {
		ids[i] = w.ID
	}
	return ids
}

// Validate checks that ids are unique and every default is inside its domain.
func (p Panel) Validate() error {
	seen := make(map[string]bool, len(p.Widgets))
	for _, w := range p.Widgets {
		if seen[w.ID] {
			return fmt.Errorf("duplicate widget id %q", w.ID)
		}
		seen[w.ID] = true
		if err := w.Validate(w.Default); err != nil {
			return fmt.Errorf("default: %w", err)
		}
	}
	return nil
}

// Defaults returns the initial widget state.
func (p Panel) Defaults() State {
	values := make(map[string]Value, len(p.Widgets))
	for _, w := range p.Widgets {
		values[w.ID] = w.Default
	}
	return State{values: values}
}

// WithDefaults returns a copy of the panel whose defaults are replaced by the parsed overrides.
// Unknown ids and out-of-domain values are errors.
func (p Panel) WithDefaults(overrides map[string]string) (Panel, error) {
	out := p
	out.Widgets = slices.Clone(p.Widgets)

	for _, id := range slices.Sorted(maps.Keys(overrides)) {
		i := slices.IndexFunc(out.Widgets, func(w Widget) bool { return w.ID == id })
		if i < 0 {
			return Panel{}, fmt.Errorf("unknown widget %q", id)
		}
		v, err := out.Widgets[i].Parse(overrides[id])
		if err != nil {
			return Panel{}, err
		}
		out.Widgets[i].Default = v
	}
	return out, nil
}

// State is an immutable snapshot of widget values.
type State struct {
	values map[string]Value
}

// NewState builds a snapshot from a map; the map is copied.
func NewState(values map[string]Value) State {
	return State{values: maps.Clone(values)}
}

// Get returns the current value of a widget.
func (s State) Get(id string) (Value, bool) {
	v, ok := s.values[id]
	return v, ok
}

// With returns a new snapshot with id set to v.
func (s State) With(id string, v Value) State {
	values := maps.Clone(s.values)
	if values == nil {
		values = make(map[string]Value, 1)
	}
	values[id] = v
	return State{values: values}
}

// IDs returns the ids held in the snapshot, sorted.
func (s State) IDs() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Equal reports whether both snapshots hold equal values for the same ids.
func (s State) Equal(other State) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for id, v := range s.values {
		o, ok := other.values[id]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

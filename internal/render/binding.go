package render

import (
	"context"
	"fmt"
	"slices"

	"github.com/rshade/cintel/internal/widget"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for binding invocation.
var (
	// ErrUndeclaredInput indicates a binding read a widget it did not declare as a dependency.
	ErrUndeclaredInput = constError("widget not declared as a binding dependency")

	// ErrInputType indicates a widget value of an unexpected type.
	ErrInputType = constError("unexpected widget value type")

	// ErrDuplicateBinding indicates two bindings registered under the same output id.
	ErrDuplicateBinding = constError("duplicate binding")

	// ErrUnknownBinding indicates a lookup of an output id with no binding.
	ErrUnknownBinding = constError("unknown binding")
)

// Func computes an output from the current values of the binding's declared inputs.
// The dataset is captured when the binding is constructed.
type Func func(ctx context.Context, in Inputs) (Output, error)

// Binding ties a render function to a named output.
type Binding struct {
	// ID is the output identifier used by the layout.
	ID string
	// Kind is the output kind the layout expects.
	Kind Kind
	// Deps lists the widget ids the binding reads. The runtime re-invokes the binding
	// only when one of them changes.
	Deps []string
	Fn   Func
}

// DependsOn reports whether widgetID is one of the binding's dependencies.
func (b Binding) DependsOn(widgetID string) bool { return slices.Contains(b.Deps, widgetID) }

// Invoke runs the binding against a state snapshot. The function sees only declared deps.
// An output whose kind differs from the declared kind is an error.
func (b Binding) Invoke(ctx context.Context, state widget.State) (Output, error) {
	out, err := b.Fn(ctx, Inputs{state: state, deps: b.Deps})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Kind() != b.Kind {
		return nil, fmt.Errorf("binding %q returned %v, want %s output", b.ID, out, b.Kind)
	}
	return out, nil
}

// Inputs is the read-only view of widget state given to a binding.
type Inputs struct {
	state widget.State
	deps  []string
}

func (in Inputs) get(id string) (widget.Value, error) {
	if !slices.Contains(in.deps, id) {
		return nil, fmt.Errorf("%w: %q", ErrUndeclaredInput, id)
	}
	v, ok := in.state.Get(id)
	if !ok {
		return nil, fmt.Errorf("widget %q has no value", id)
	}
	return v, nil
}

// Text returns a Selectize value.
func (in Inputs) Text(id string) (string, error) {
	v, err := in.get(id)
	if err != nil {
		return "", err
	}
	t, ok := v.(widget.Text)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrInputType, id, v)
	}
	return string(t), nil
}

// Int returns a Numeric or Slider value rounded to an integer.
func (in Inputs) Int(id string) (int, error) {
	v, err := in.get(id)
	if err != nil {
		return 0, err
	}
	n, ok := v.(widget.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %q is %T", ErrInputType, id, v)
	}
	return n.Int(), nil
}

// Set returns a CheckboxGroup value.
func (in Inputs) Set(id string) (widget.Set, error) {
	v, err := in.get(id)
	if err != nil {
		return nil, err
	}
	s, ok := v.(widget.Set)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T", ErrInputType, id, v)
	}
	return s, nil
}

// Registry is the explicit mapping from output id to binding, in registration order.
type Registry struct {
	order    []string
	bindings map[string]Binding
}

// NewRegistry registers bindings in order. Ids must be unique and functions non-nil.
func NewRegistry(bindings ...Binding) (*Registry, error) {
	r := &Registry{bindings: make(map[string]Binding, len(bindings))}
	for _, b := range bindings {
		if b.ID == "" || b.Fn == nil {
			return nil, fmt.Errorf("binding %q: id and function are required", b.ID)
		}
		if _, dup := r.bindings[b.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBinding, b.ID)
		}
		r.order = append(r.order, b.ID)
		r.bindings[b.ID] = b
	}
	return r, nil
}

// Get returns the binding for an output id.
func (r *Registry) Get(id string) (Binding, error) {
	b, ok := r.bindings[id]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q", ErrUnknownBinding, id)
	}
	return b, nil
}

// IDs returns the output ids in registration order.
func (r *Registry) IDs() []string { return slices.Clone(r.order) }

// Bindings returns all bindings in registration order.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, len(r.order))
	for i, id := range r.order {
		out[i] = r.bindings[id]
	}
	return out
}

// Dependents returns, in registration order, the ids of bindings that read widgetID.
func (r *Registry) Dependents(widgetID string) []string {
	var ids []string
	for _, id := range r.order {
		if r.bindings[id].DependsOn(widgetID) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Package runtime drives a dashboard reactively: it holds the current widget state,
// renders every binding once at start, and on each widget change re-invokes only the
// bindings that declared that widget as a dependency.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/cintel/internal/dashboard"
	"github.com/rshade/cintel/internal/logging"
	"github.com/rshade/cintel/internal/metrics"
	"github.com/rshade/cintel/internal/render"
	"github.com/rshade/cintel/internal/widget"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the runtime.
var (
	// ErrUnknownWidget indicates a change to a widget id the panel does not declare.
	ErrUnknownWidget = constError("unknown widget")

	// ErrBindingPanic wraps a panic recovered from a render function.
	ErrBindingPanic = constError("render binding panicked")
)

// Result is the latest outcome of one binding. Exactly one of Output and Err is set
// once the binding has run.
type Result struct {
	Output   render.Output
	Err      error
	Duration time.Duration
	// Renders counts invocations since the runtime was created.
	Renders int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) { r.log = logging.ComponentLogger(l, "runtime") }
}

// WithMetrics records every invocation on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Runtime) { r.metrics = rec }
}

// Runtime owns widget state and binding results for one dashboard session.
type Runtime struct {
	mu      sync.Mutex
	def     *dashboard.Definition
	state   widget.State
	results map[string]Result
	log     zerolog.Logger
	metrics *metrics.Recorder
}

// New validates def and seeds the state with the panel defaults. Nothing is rendered until Start.
func New(def *dashboard.Definition, opts ...Option) (*Runtime, error) {
	if def == nil {
		return nil, fmt.Errorf("runtime: nil dashboard definition")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	r := &Runtime{
		def:     def,
		state:   def.Panel.Defaults(),
		results: make(map[string]Result, len(def.Registry.IDs())),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Definition returns the dashboard the runtime drives.
func (r *Runtime) Definition() *dashboard.Definition { return r.def }

// Start renders every binding once against the current state, in registration order.
// Failing bindings are recorded in their Result; Start itself only fails on a cancelled context.
func (r *Runtime) Start(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.def.Registry.IDs()
	r.invokeLocked(ctx, ids)
	r.log.Debug().Str("dashboard", r.def.Name).Int("outputs", len(ids)).Msg("initial render complete")
	return ids, nil
}

// Set validates and installs a new widget value, then re-invokes exactly the bindings
// that depend on the widget and returns their ids. An unchanged value is a no-op.
func (r *Runtime) Set(ctx context.Context, id string, v widget.Value) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, ok := r.def.Panel.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, id)
	}
	if err := w.Validate(v); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, has := r.state.Get(id); has && current.Equal(v) {
		return nil, nil
	}
	r.state = r.state.With(id, v)
	r.metrics.ObserveWidgetChange(id)

	dependents := r.def.Registry.Dependents(id)
	if len(dependents) == 0 {
		r.log.Debug().Str("widget", id).Stringer("value", v).Msg("widget has no dependent outputs")
		return nil, nil
	}
	r.log.Debug().Str("widget", id).Stringer("value", v).Strs("outputs", dependents).Msg("widget changed")
	r.invokeLocked(ctx, dependents)
	return dependents, nil
}

// SetString parses raw with the widget's own parser and applies it with Set.
func (r *Runtime) SetString(ctx context.Context, id, raw string) ([]string, error) {
	w, ok := r.def.Panel.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, id)
	}
	v, err := w.Parse(raw)
	if err != nil {
		return nil, err
	}
	return r.Set(ctx, id, v)
}

// State returns the current widget snapshot.
func (r *Runtime) State() widget.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Value returns the current value of one widget.
func (r *Runtime) Value(id string) (widget.Value, bool) {
	return r.State().Get(id)
}

// Result returns the latest result of a binding. ok is false until the binding has run.
func (r *Runtime) Result(id string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[id]
	return res, ok
}

func (r *Runtime) invokeLocked(ctx context.Context, ids []string) {
	for _, id := range ids {
		b, err := r.def.Registry.Get(id)
		if err != nil {
			r.log.Error().Err(err).Msg("dependent binding vanished from registry")
			continue
		}

		start := time.Now()
		out, err := invoke(ctx, b, r.state)
		elapsed := time.Since(start)

		res := r.results[id]
		res.Output, res.Err, res.Duration = out, err, elapsed
		res.Renders++
		r.results[id] = res
		r.metrics.ObserveRender(id, err, elapsed)

		if err != nil {
			r.log.Warn().Err(err).Str("output", id).Msg("render failed")
			continue
		}
		r.log.Debug().Str("output", id).Dur("elapsed", elapsed).Msg("rendered")
	}
}

// invoke runs one binding, converting a panic into an error so siblings keep rendering.
func invoke(ctx context.Context, b render.Binding, state widget.State) (out render.Output, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("%w: %q: %v", ErrBindingPanic, b.ID, p)
		}
	}()
	return b.Invoke(ctx, state)
}

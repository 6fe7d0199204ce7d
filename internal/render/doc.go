// Package render defines render bindings: named, pure functions from the current widget
// values to a display output (table, grid or chart).
//
// A Binding declares the widget ids it reads in Deps and can only read those through
// Inputs. The dataset is injected when the binding is constructed, so an invocation is a
// function of (dataset, declared widget values) alone. A Registry is the single explicit
// mapping from output id to binding that a dashboard definition composes.
package render

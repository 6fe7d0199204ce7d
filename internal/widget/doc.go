// Package widget declares dashboard input controls and their values.
//
// A Widget is a static declaration (id, label, domain, default). The current
// values live in an immutable State snapshot owned by the reactive runtime;
// render bindings only ever read it.
package widget

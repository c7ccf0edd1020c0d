// Package filter implements the post-bind value transformations of
// spec §4.6 (C6): pure functions (string, args) -> string, dispatched by
// name from a Filter expression node.
package filter

import (
	"fmt"
	"strings"
)

// Func is a registered filter: it receives the captured value and the
// filter's argument literals (already reduced to strings) and returns
// the transformed value.
type Func func(value string, args []string) string

// Registry holds the filters a combinator run may dispatch. The
// combinator never applies a filter it was not given (spec §4.6).
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry pre-populated with the core `trim`
// filter (spec §4.6). Callers may register additional filters at
// start-up.
func NewRegistry() *Registry {
	r := &Registry{funcs: map[string]Func{}}
	r.Register("trim", func(value string, _ []string) string {
		return strings.TrimSpace(value)
	})
	return r
}

// Register adds or replaces a named filter.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the filter registered under name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Known reports whether name is a registered filter or the built-in
// `skip` pseudo-filter (handled directly by the combinator, never
// dispatched through the registry).
func (r *Registry) Known(name string) bool {
	if name == "skip" {
		return true
	}
	_, ok := r.funcs[name]
	return ok
}

// UnknownFilterError is reported by the combinator when a template
// names a filter the registry doesn't recognise (spec §4.6).
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.Name)
}

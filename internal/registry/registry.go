// Package registry is the central "glue" between a declarative graph
// definition and compiled Go code: it maps the string type names used in
// an hclgraph operation block onto ActionFactory functions that build the
// actual graphcore.Action invoked at run time.
package registry

import (
	"fmt"

	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/zclconf/go-cty/cty"
)

// ActionFactory builds a graphcore.Action from an operation's decoded
// argument value. Most factories expect args to be an object type whose
// attributes are the operation's declared arguments.
type ActionFactory func(args cty.Value) (graphcore.Action, error)

// Registry holds the set of action types known to a single hclgraph load.
type Registry struct {
	factories map[string]ActionFactory
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]ActionFactory)}
}

// Register adds a factory under name. Registering the same name twice is a
// programmer error and panics rather than returning an error a caller
// could ignore.
func (r *Registry) Register(name string, factory ActionFactory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("registry: action type %q already registered", name))
	}
	r.factories[name] = factory
}

// Has reports whether name has a registered factory.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Build looks up name's factory and invokes it with args, returning
// InvalidArgumentError if no factory is registered under that name.
func (r *Registry) Build(name string, args cty.Value) (graphcore.Action, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("no action type registered for %q", name)}
	}
	return factory(args)
}

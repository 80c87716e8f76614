// Package idgraph is the id-keyed front-end: operations are added under a
// caller-chosen integer id, and a dependency is only accepted if its id was
// already registered. That "no forward references" rule is a presentation
// constraint on this front-end, not a constraint graphcore itself enforces
// — the object graph underneath has no concept of ids at all.
package idgraph

import (
	"fmt"

	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/pool"
)

// Builder maps caller-chosen ids onto graphcore nodes.
type Builder struct {
	byID  map[int]*graphcore.Node
	order []int
}

// New returns an empty id-keyed builder.
func New() *Builder {
	return &Builder{byID: make(map[int]*graphcore.Node)}
}

// Add registers a new operation under id, depending on every id listed in
// dependsOn. Each dependency id must already have been added with a prior
// call to Add; forward references and duplicate ids both fail with
// InvalidArgumentError.
func (b *Builder) Add(id int, weight int, p *pool.Pool, action graphcore.Action, dependsOn ...int) error {
	if _, exists := b.byID[id]; exists {
		return &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("id %d is already registered", id)}
	}

	preds := make([]*graphcore.Node, 0, len(dependsOn))
	for _, depID := range dependsOn {
		dep, ok := b.byID[depID]
		if !ok {
			return &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("id %d depends on unregistered id %d", id, depID)}
		}
		preds = append(preds, dep)
	}

	n := graphcore.NewNode(weight, p, action)
	for _, dep := range preds {
		if err := graphcore.AddPredecessor(n, dep); err != nil {
			return err
		}
	}

	b.byID[id] = n
	b.order = append(b.order, id)
	return nil
}

// Node returns the node registered under id, if any.
func (b *Builder) Node(id int) (*graphcore.Node, bool) {
	n, ok := b.byID[id]
	return n, ok
}

// Nodes returns every registered node, in the order ids were added.
func (b *Builder) Nodes() []*graphcore.Node {
	out := make([]*graphcore.Node, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byID[id])
	}
	return out
}

// Package objgraph is the object-graph front-end: callers build a graph by
// creating nodes and wiring explicit *graphcore.Node edges directly, the
// thinnest possible facade over internal/graphcore. It exists alongside
// internal/idgraph because spec.md treats the two front-ends as peers over
// one core — this one simply re-exports graphcore's primitives under a
// Graph type that also tracks the node set for a later Execute call.
package objgraph

import (
	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/pool"
)

// Graph collects the nodes created through it so they can be handed to
// scheduler.Execute as a single slice.
type Graph struct {
	nodes []*graphcore.Node
}

// New returns an empty object graph.
func New() *Graph {
	return &Graph{}
}

// AddNode creates a new operation node with the given weight and pool
// membership (nil selects the default pool) and adds it to the graph.
func (g *Graph) AddNode(weight int, p *pool.Pool, action graphcore.Action) *graphcore.Node {
	n := graphcore.NewNode(weight, p, action)
	g.nodes = append(g.nodes, n)
	return n
}

// AddEdge records that n depends on p: p must complete before n may run.
// It delegates directly to graphcore.AddPredecessor, so it fails with
// InvalidStateError exactly when that does.
func (g *Graph) AddEdge(n, p *graphcore.Node) error {
	return graphcore.AddPredecessor(n, p)
}

// RemoveEdge is AddEdge's exact inverse.
func (g *Graph) RemoveEdge(n, p *graphcore.Node) error {
	return graphcore.RemovePredecessor(n, p)
}

// Nodes returns every node added to the graph through AddNode, in the
// order they were created.
func (g *Graph) Nodes() []*graphcore.Node {
	return append([]*graphcore.Node(nil), g.nodes...)
}

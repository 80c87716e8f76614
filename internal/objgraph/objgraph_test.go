package objgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/objgraph"
)

func TestAddNodeAndEdge(t *testing.T) {
	g := objgraph.New()
	a := g.AddNode(0, nil, nil)
	b := g.AddNode(0, nil, nil)
	require.NoError(t, g.AddEdge(b, a))

	assert.Len(t, b.Predecessors(), 1)
	assert.Equal(t, a.ID(), b.Predecessors()[0].ID())
	assert.Len(t, g.Nodes(), 2)
}

func TestRemoveEdgeIsInverse(t *testing.T) {
	g := objgraph.New()
	a := g.AddNode(0, nil, nil)
	b := g.AddNode(0, nil, nil)
	require.NoError(t, g.AddEdge(b, a))
	require.NoError(t, g.RemoveEdge(b, a))
	assert.Empty(t, b.Predecessors())
}

func TestAddEdgeRejectsSelfDependency(t *testing.T) {
	g := objgraph.New()
	a := g.AddNode(0, nil, nil)
	err := g.AddEdge(a, a)
	require.Error(t, err)
	assert.IsType(t, &graphcore.InvalidArgumentError{}, err)
}

func TestNodesReturnsACopy(t *testing.T) {
	g := objgraph.New()
	g.AddNode(0, nil, nil)
	nodes := g.Nodes()
	nodes[0] = nil
	assert.NotNil(t, g.Nodes()[0])
}

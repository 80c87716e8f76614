package idgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/idgraph"
)

func TestAddAndResolveDependencies(t *testing.T) {
	b := idgraph.New()
	require.NoError(t, b.Add(1, 0, nil, nil))
	require.NoError(t, b.Add(2, 0, nil, nil, 1))

	n2, ok := b.Node(2)
	require.True(t, ok)
	require.Len(t, n2.Predecessors(), 1)

	n1, ok := b.Node(1)
	require.True(t, ok)
	assert.Equal(t, n1.ID(), n2.Predecessors()[0].ID())
}

func TestAddRejectsDuplicateID(t *testing.T) {
	b := idgraph.New()
	require.NoError(t, b.Add(1, 0, nil, nil))
	err := b.Add(1, 0, nil, nil)
	require.Error(t, err)
}

func TestAddRejectsForwardReference(t *testing.T) {
	b := idgraph.New()
	err := b.Add(1, 0, nil, nil, 2)
	require.Error(t, err)
}

func TestNodesPreservesInsertionOrder(t *testing.T) {
	b := idgraph.New()
	require.NoError(t, b.Add(3, 0, nil, nil))
	require.NoError(t, b.Add(1, 0, nil, nil))
	require.NoError(t, b.Add(2, 0, nil, nil))

	nodes := b.Nodes()
	require.Len(t, nodes, 3)
	n3, _ := b.Node(3)
	n1, _ := b.Node(1)
	n2, _ := b.Node(2)
	assert.Equal(t, []int64{n3.ID(), n1.ID(), n2.ID()}, []int64{nodes[0].ID(), nodes[1].ID(), nodes[2].ID()})
}

package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/pool"
	"github.com/vk/taskgraph/internal/scheduler"
)

func recordingAction(order *[]int64, mu *sync.Mutex, id *int64) graphcore.Action {
	return func(ctx context.Context) error {
		mu.Lock()
		*order = append(*order, *id)
		mu.Unlock()
		return nil
	}
}

func TestExecuteDiamondUnderCap(t *testing.T) {
	var mu sync.Mutex
	var order []int64

	// IDs are assigned at construction, and the recording action needs its
	// own node's ID, so allocate each node's ID slot before building its
	// action closure.
	var topID, leftID, rightID, bottomID int64
	top := graphcore.NewNode(0, nil, recordingAction(&order, &mu, &topID))
	left := graphcore.NewNode(1, nil, recordingAction(&order, &mu, &leftID))
	right := graphcore.NewNode(1, nil, recordingAction(&order, &mu, &rightID))
	bottom := graphcore.NewNode(0, nil, recordingAction(&order, &mu, &bottomID))
	topID, leftID, rightID, bottomID = top.ID(), left.ID(), right.ID(), bottom.ID()

	require.NoError(t, graphcore.AddPredecessor(left, top))
	require.NoError(t, graphcore.AddPredecessor(right, top))
	require.NoError(t, graphcore.AddPredecessor(bottom, left))
	require.NoError(t, graphcore.AddPredecessor(bottom, right))

	err := scheduler.Execute(context.Background(), 3, []*graphcore.Node{top, left, right, bottom}, false)
	require.NoError(t, err)

	assert.Equal(t, graphcore.Completed, top.State())
	assert.Equal(t, graphcore.Completed, left.State())
	assert.Equal(t, graphcore.Completed, right.State())
	assert.Equal(t, graphcore.Completed, bottom.State())

	require.Len(t, order, 4)
	assert.Equal(t, topID, order[0])
	assert.Equal(t, bottomID, order[3])
}

func TestExecuteSequentialOrdersByWeight(t *testing.T) {
	var mu sync.Mutex
	var order []int64

	var lowID, highID int64
	low := graphcore.NewNode(1, nil, recordingAction(&order, &mu, &lowID))
	high := graphcore.NewNode(5, nil, recordingAction(&order, &mu, &highID))
	lowID, highID = low.ID(), high.ID()

	err := scheduler.Execute(context.Background(), 1, []*graphcore.Node{low, high}, false)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, highID, order[0], "higher weight must run first when only one worker is available")
	assert.Equal(t, lowID, order[1])
}

func TestSelfCycleIsRejectedBeforeExecute(t *testing.T) {
	a := graphcore.NewNode(0, nil, nil)
	require.Error(t, graphcore.AddPredecessor(a, a))
}

func TestExecuteRejectsPureCycle(t *testing.T) {
	a := graphcore.NewNode(0, nil, nil)
	b := graphcore.NewNode(0, nil, nil)
	require.NoError(t, graphcore.AddPredecessor(a, b))
	require.NoError(t, graphcore.AddPredecessor(b, a))

	err := scheduler.Execute(context.Background(), 2, []*graphcore.Node{a, b}, false)
	require.Error(t, err)
	assert.IsType(t, &graphcore.CycleError{}, err)
}

func TestExecutePropagatesFailureAsSkip(t *testing.T) {
	boom := errors.New("boom")
	root := graphcore.NewNode(0, nil, func(ctx context.Context) error { return boom })
	child := graphcore.NewNode(0, nil, nil)
	grandchild := graphcore.NewNode(0, nil, nil)
	require.NoError(t, graphcore.AddPredecessor(child, root))
	require.NoError(t, graphcore.AddPredecessor(grandchild, child))

	err := scheduler.Execute(context.Background(), 2, []*graphcore.Node{root, child, grandchild}, false)
	require.NoError(t, err)

	assert.Equal(t, graphcore.Failed, root.State())
	assert.Equal(t, boom, root.FailurePayload())
	assert.Equal(t, graphcore.Skipped, child.State())
	assert.Equal(t, graphcore.Skipped, grandchild.State())
}

func TestExecuteCrossPoolRespectsIndependentCaps(t *testing.T) {
	dbPool, err := pool.New("db", 1)
	require.NoError(t, err)
	cachePool, err := pool.New("cache", 1)
	require.NoError(t, err)

	var mu sync.Mutex
	var running int
	var maxObserved int
	slowAction := func(ctx context.Context) error {
		mu.Lock()
		running++
		if running > maxObserved {
			maxObserved = running
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return nil
	}

	dbA := graphcore.NewNode(0, dbPool, slowAction)
	dbB := graphcore.NewNode(0, dbPool, slowAction)
	cacheA := graphcore.NewNode(0, cachePool, slowAction)

	err = scheduler.Execute(context.Background(), 10, []*graphcore.Node{dbA, dbB, cacheA}, false)
	require.NoError(t, err)
	assert.Equal(t, graphcore.Completed, dbA.State())
	assert.Equal(t, graphcore.Completed, dbB.State())
	assert.Equal(t, graphcore.Completed, cacheA.State())
	// db's cap of 1 and cache's cap of 1 run independently, so up to 2 nodes
	// (one per pool) may be observed running concurrently, never 3.
	assert.LessOrEqual(t, maxObserved, 2)
}

func TestExecuteCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// first cancels the run's context but itself still succeeds; second is
	// independent (no dependency on first) so it's still pending when the
	// sequential loop re-checks ctx.Err() and must report cancellation
	// instead of running it.
	first := graphcore.NewNode(1, nil, func(ctx context.Context) error {
		cancel()
		return nil
	})
	second := graphcore.NewNode(0, nil, nil)

	err := scheduler.Execute(ctx, 1, []*graphcore.Node{first, second}, false)
	require.Error(t, err)
	var cancellation *scheduler.Cancellation
	assert.ErrorAs(t, err, &cancellation)
	assert.Equal(t, graphcore.Completed, first.State())
	assert.Equal(t, graphcore.ReadyToRun, second.State())
}

func TestExecuteResetAfterDone(t *testing.T) {
	n := graphcore.NewNode(0, nil, nil)
	require.NoError(t, scheduler.Execute(context.Background(), 1, []*graphcore.Node{n}, true))
	assert.Equal(t, graphcore.NotStarted, n.State())
}

func TestExecuteRejectsInvalidGlobalCapWithDefaultPoolNode(t *testing.T) {
	n := graphcore.NewNode(0, nil, nil)
	err := scheduler.Execute(context.Background(), 0, []*graphcore.Node{n}, false)
	require.Error(t, err)
	assert.IsType(t, &graphcore.InvalidArgumentError{}, err)
	assert.Equal(t, graphcore.NotStarted, n.State())
}

func TestExecuteWithEmptyRunSet(t *testing.T) {
	n := graphcore.NewNode(0, nil, nil)
	n.MarkReadyToRun()
	require.True(t, n.MarkRunning())
	require.True(t, n.Complete())

	err := scheduler.Execute(context.Background(), 1, []*graphcore.Node{n}, false)
	assert.NoError(t, err)
}

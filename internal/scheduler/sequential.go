package scheduler

import (
	"context"

	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/graphcore"
)

// runSequential drives the run set one node at a time: the fast path
// chosen only when globalCap == 1 and no runnable node overrides the
// default pool, so a single worker suffices instead of launching goroutines
// under a pool of size one.
func runSequential(ctx context.Context, runSet []*graphcore.Node) error {
	logger := ctxlog.FromContext(ctx)
	pending := append([]*graphcore.Node(nil), runSet...)

	for {
		pending = removeSignaled(pending)
		if len(pending) == 0 {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return &Cancellation{Err: err}
		}

		idx := selectEligible(pending)
		if idx < 0 {
			return &graphcore.CycleError{Reason: "sequential executor found no eligible node though the run set is non-empty"}
		}

		n := pending[idx]
		pending = append(pending[:idx], pending[idx+1:]...)

		if hasFaultedPredecessor(n) {
			logger.Debug("scheduler: skipping node with faulted predecessor", "node_id", n.ID())
			n.Skip()
			propagateSkip(n)
			continue
		}

		if !n.MarkRunning() {
			continue
		}
		logger.Debug("scheduler: running node", "node_id", n.ID(), "weight", n.Weight())
		if err := n.Run(ctx); err != nil {
			if n.Fail(err) {
				logger.Debug("scheduler: node failed", "node_id", n.ID(), "error", err)
				propagateSkip(n)
			}
			continue
		}
		n.Complete()
	}
}

// selectEligible returns the index, within pending, of the highest-weight
// node whose predecessors are all signaled, or -1 if none qualifies. Ties
// break on the lower node id, which is also insertion order, giving
// deterministic output for otherwise-equal weights.
func selectEligible(pending []*graphcore.Node) int {
	best := -1
	for i, n := range pending {
		if !allPredecessorsSignaled(n) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if betterCandidate(n, pending[best]) {
			best = i
		}
	}
	return best
}

func betterCandidate(a, b *graphcore.Node) bool {
	if a.Weight() != b.Weight() {
		return a.Weight() > b.Weight()
	}
	return a.ID() < b.ID()
}

func allPredecessorsSignaled(n *graphcore.Node) bool {
	for _, p := range n.Predecessors() {
		if !p.Signaled() {
			return false
		}
	}
	return true
}

func hasFaultedPredecessor(n *graphcore.Node) bool {
	for _, p := range n.Predecessors() {
		if p.Faulted() {
			return true
		}
	}
	return false
}

func removeSignaled(nodes []*graphcore.Node) []*graphcore.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if !n.Signaled() {
			out = append(out, n)
		}
	}
	return out
}

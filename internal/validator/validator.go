// Package validator restricts a caller-supplied node set to the nodes that
// actually need to run and proves the result is acyclic. It peels the graph
// with Kahn's algorithm rather than a DFS three-color walk; the indegree
// counts it builds are local to that check and are not handed to the
// scheduler, which only needs the yes/no cycle answer.
package validator

import (
	"context"
	"sort"

	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/graphcore"
)

// RunSet computes the subset of nodes that must be scheduled: every
// non-signaled node reachable, by following predecessors, from a root (a
// node with no non-signaled successor). Admitted nodes are marked
// ReadyToRun. If no such node exists while some caller node is still
// non-signaled, every non-signaled node must sit in a cycle entirely among
// non-signaled nodes, and RunSet fails with a CycleError without mutating
// any state.
//
// The returned slice then has its acyclicity proven with Kahn's algorithm;
// on failure every admitted node reverts to NotStarted and the error is a
// CycleError.
func RunSet(ctx context.Context, nodes []*graphcore.Node) ([]*graphcore.Node, error) {
	logger := ctxlog.FromContext(ctx)

	byID := make(map[int64]*graphcore.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID()] = n
	}

	var roots []*graphcore.Node
	anyNonSignaled := false
	for _, n := range nodes {
		if !n.Signaled() {
			anyNonSignaled = true
			if hasNoNonSignaledSuccessor(n) {
				roots = append(roots, n)
			}
		}
	}

	admitted := make(map[int64]*graphcore.Node)
	var queue []*graphcore.Node
	queue = append(queue, roots...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Signaled() {
			continue
		}
		if _, ok := admitted[n.ID()]; ok {
			continue
		}
		admitted[n.ID()] = n
		for _, p := range n.Predecessors() {
			if !p.Signaled() {
				queue = append(queue, p)
			}
		}
	}

	if len(admitted) == 0 {
		if anyNonSignaled {
			logger.Debug("validator: no root reachable from a non-signaled node")
			return nil, &graphcore.CycleError{Reason: "no non-signaled node is reachable from a root; a cycle exists among the unfinished nodes"}
		}
		return nil, nil
	}

	runSet := make([]*graphcore.Node, 0, len(admitted))
	for _, n := range admitted {
		runSet = append(runSet, n)
	}
	markReadyToRun(runSet)

	if err := detectCycles(runSet); err != nil {
		logger.Debug("validator: cycle detected during Kahn peeling, reverting run set", "error", err)
		revertToNotStarted(runSet)
		return nil, err
	}

	sort.Slice(runSet, func(i, j int) bool { return runSet[i].ID() < runSet[j].ID() })
	return runSet, nil
}

func hasNoNonSignaledSuccessor(n *graphcore.Node) bool {
	for _, s := range n.Successors() {
		if !s.Signaled() {
			return false
		}
	}
	return true
}

func markReadyToRun(nodes []*graphcore.Node) {
	for _, n := range nodes {
		n.MarkReadyToRun()
	}
}

func revertToNotStarted(nodes []*graphcore.Node) {
	for _, n := range nodes {
		n.Reset()
	}
}

// detectCycles proves the run set is acyclic with Kahn's algorithm:
// repeatedly remove nodes whose in-run-set predecessor count is zero,
// decrementing the indegree of their dependents. If an iteration removes
// nothing while nodes remain, a cycle exists among them.
func detectCycles(runSet []*graphcore.Node) error {
	set := make(map[int64]*graphcore.Node, len(runSet))
	for _, n := range runSet {
		set[n.ID()] = n
	}

	indegree := make(map[int64]int, len(runSet))
	for _, n := range runSet {
		indegree[n.ID()] = countPredecessorsIn(n, set)
	}

	var queue []*graphcore.Node
	for _, n := range runSet {
		if indegree[n.ID()] == 0 {
			queue = append(queue, n)
		}
	}

	removed := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		removed++
		for _, s := range n.Successors() {
			if _, ok := set[s.ID()]; !ok {
				continue
			}
			indegree[s.ID()]--
			if indegree[s.ID()] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if removed != len(runSet) {
		return &graphcore.CycleError{Reason: "topological peeling stalled before exhausting the run set"}
	}
	return nil
}

func countPredecessorsIn(n *graphcore.Node, set map[int64]*graphcore.Node) int {
	count := 0
	for _, p := range n.Predecessors() {
		if _, ok := set[p.ID()]; ok {
			count++
		}
	}
	return count
}

package scheduler

import (
	"context"
	"sort"

	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/graphcore"
)

// slot is the execution-slot record for one distinct pool: its effective
// cap, the nodes not yet launched, and how many of its nodes are currently
// Running.
type slot struct {
	cap     int
	pending []*graphcore.Node
	running int
}

// completion is the message a launch wrapper sends back to the main loop
// when its node reaches a terminal state, identifying only which pool's
// running count to decrement — the node's own state is already final by
// the time this is sent.
type completion struct {
	poolKey string
}

// runPooled is the heart of the scheduler: it partitions the run set by
// pool, then repeatedly reaps signaled nodes, launches everything each
// pool's spare capacity allows (highest weight first), and waits for the
// next completion, until every node in the run set is signaled. It uses a
// single fan-in completion channel across every pool's goroutines rather
// than one channel per pool, so the main loop can wait on "any pool's next
// completion" with a single receive.
func runPooled(ctx context.Context, globalCap int, runSet []*graphcore.Node) error {
	logger := ctxlog.FromContext(ctx)

	slots := make(map[string]*slot)
	for _, n := range runSet {
		key := n.Pool().ID()
		s, ok := slots[key]
		if !ok {
			s = &slot{cap: n.Pool().EffectiveCap(globalCap)}
			slots[key] = s
		}
		s.pending = append(s.pending, n)
	}

	done := make(chan completion)
	totalRunning := 0

	launch := func(n *graphcore.Node, poolKey string) {
		totalRunning++
		slots[poolKey].running++
		go func() {
			defer func() { done <- completion{poolKey: poolKey} }()
			if !n.MarkRunning() {
				return
			}
			logger.Debug("scheduler: running node", "node_id", n.ID(), "pool", poolKey, "weight", n.Weight())
			if err := n.Run(ctx); err != nil {
				if n.Fail(err) {
					logger.Debug("scheduler: node failed", "node_id", n.ID(), "error", err)
					propagateSkip(n)
				}
				return
			}
			n.Complete()
		}()
	}

	for !allSignaled(runSet) {
		if err := ctx.Err(); err != nil {
			drain(done, totalRunning)
			return &Cancellation{Err: err}
		}

		for key, s := range slots {
			s.pending = removeSignaled(s.pending)

			var stillPending, skippable, launchable []*graphcore.Node
			for _, n := range s.pending {
				switch {
				case !allPredecessorsSignaled(n):
					stillPending = append(stillPending, n)
				case hasFaultedPredecessor(n):
					skippable = append(skippable, n)
				default:
					launchable = append(launchable, n)
				}
			}

			for _, n := range skippable {
				logger.Debug("scheduler: skipping node with faulted predecessor", "node_id", n.ID())
				n.Skip()
				propagateSkip(n)
			}

			sort.Slice(launchable, func(i, j int) bool { return betterCandidate(launchable[i], launchable[j]) })

			avail := s.cap - s.running
			if avail > len(launchable) {
				avail = len(launchable)
			}
			if avail < 0 {
				avail = 0
			}
			for _, n := range launchable[:avail] {
				launch(n, key)
			}
			stillPending = append(stillPending, launchable[avail:]...)
			s.pending = stillPending
		}

		if allSignaled(runSet) {
			break
		}

		if totalRunning == 0 {
			return &graphcore.CycleError{Reason: "pooled executor stalled: no node eligible to launch though the run set is incomplete"}
		}

		c := <-done
		totalRunning--
		slots[c.poolKey].running--
	}

	drain(done, totalRunning)
	return nil
}

func drain(done <-chan completion, n int) {
	for i := 0; i < n; i++ {
		<-done
	}
}

func allSignaled(nodes []*graphcore.Node) bool {
	for _, n := range nodes {
		if !n.Signaled() {
			return false
		}
	}
	return true
}

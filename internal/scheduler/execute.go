// Package scheduler drains a run set of graph nodes to completion: the
// sequential fast path for globalCap == 1 with no pool overrides, and the
// pooled parallel executor — independent per-pool caps under a shared
// global cap, weight-ordered selection, eager transitive skip propagation
// on failure — for everything else. See internal/validator for run-set
// computation and cycle detection, and internal/graphcore for the node
// model both operate on.
package scheduler

import (
	"context"

	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/validator"
)

// Execute runs every non-signaled node reachable from nodes to completion,
// as early as dependency order and pool capacity allow. It returns a
// CycleError if the nodes (restricted to their non-signaled run set)
// contain a cycle, an InvalidArgumentError if globalCap < 1 while some
// runnable node uses the default pool, or a Cancellation if ctx is
// cancelled before the run finishes. Any other outcome (including every
// individual node's failure) is recorded on the nodes themselves, never
// raised here.
//
// If resetAfterDone is true, every node admitted to the run set is restored
// to NotStarted with its failure payload cleared once the run ends,
// regardless of whether it finished Completed, Failed, or Skipped.
func Execute(ctx context.Context, globalCap int, nodes []*graphcore.Node, resetAfterDone bool) error {
	logger := ctxlog.FromContext(ctx)

	runSet, err := validator.RunSet(ctx, nodes)
	if err != nil {
		return err
	}
	if len(runSet) == 0 {
		logger.Debug("scheduler: run set is empty, nothing to execute")
		return nil
	}

	usesDefault, usesNonDefault := poolUsage(runSet)
	if globalCap < 1 && usesDefault {
		for _, n := range runSet {
			n.Reset()
		}
		return &graphcore.InvalidArgumentError{Msg: "globalCap must be >= 1 when any runnable node uses the default pool"}
	}

	sequential := globalCap == 1 && !usesNonDefault
	logger.Debug("scheduler: run starting", "node_count", len(runSet), "global_cap", globalCap, "sequential", sequential)

	var runErr error
	if sequential {
		runErr = runSequential(ctx, runSet)
	} else {
		runErr = runPooled(ctx, globalCap, runSet)
	}

	if resetAfterDone {
		for _, n := range runSet {
			n.Reset()
		}
	}

	logger.Debug("scheduler: run finished", "error", runErr)
	return runErr
}

func poolUsage(runSet []*graphcore.Node) (usesDefault, usesNonDefault bool) {
	for _, n := range runSet {
		if n.Pool().IsDefault() {
			usesDefault = true
		} else {
			usesNonDefault = true
		}
	}
	return
}

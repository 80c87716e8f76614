package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/hclgraph"
	"github.com/vk/taskgraph/internal/objgraph"
	"github.com/vk/taskgraph/internal/scheduler"
)

// Run loads the configured graph, executes it, and logs a run report: the
// number of nodes that completed, failed and were skipped, plus the error of
// each failed node. It returns the scheduler's run error, if any; individual
// node failures are logged but don't themselves make Run return an error —
// see scheduler.Execute's doc comment for what a non-nil return means.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("app run starting", "graph_path", a.config.GraphPath)

	if a.config.HealthcheckPort > 0 {
		go a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	graph, err := a.loadGraph(ctx)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.graph = graph
	nodes := graph.Nodes()
	a.logger.Debug("dependency graph built", "node_count", len(nodes))

	if len(nodes) == 0 {
		a.logger.Warn("no operations found in graph, nothing to run")
		return nil
	}

	a.logger.Info("starting run", "node_count", len(nodes), "global_cap", a.config.GlobalCap)
	runErr := scheduler.Execute(ctx, a.config.GlobalCap, nodes, a.config.ResetAfterDone)
	a.logReport(nodes)

	if runErr != nil {
		a.logger.Error("run failed", "error", runErr)
		return fmt.Errorf("execution failed: %w", runErr)
	}
	a.logger.Info("run finished")
	return nil
}

// loadGraph dispatches to hclgraph.Load or hclgraph.LoadDir depending on
// whether GraphPath names a single file or a directory of graph files.
func (a *App) loadGraph(ctx context.Context) (*objgraph.Graph, error) {
	info, err := os.Stat(a.config.GraphPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return hclgraph.LoadDir(ctx, a.registry, a.config.GraphPath)
	}
	return hclgraph.Load(ctx, a.registry, a.config.GraphPath)
}

func (a *App) logReport(nodes []*graphcore.Node) {
	var completed, failed, skipped int
	for _, n := range nodes {
		switch n.State() {
		case graphcore.Completed:
			completed++
		case graphcore.Failed:
			failed++
			a.logger.Warn("operation failed", "node_id", n.ID(), "error", n.FailurePayload())
		case graphcore.Skipped:
			skipped++
		}
	}
	a.logger.Info("run report", "completed", completed, "failed", failed, "skipped", skipped)
}

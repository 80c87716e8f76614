// Package app wires the declarative graph loader, the action registry, and
// the scheduler together into a single runnable unit.
package app

import (
	"io"
	"log/slog"

	"github.com/vk/taskgraph/internal/actions"
	"github.com/vk/taskgraph/internal/objgraph"
	"github.com/vk/taskgraph/internal/registry"
)

// Registerer adds one or more action factories to reg. A caller embedding
// this module with its own action types supplies one alongside (or instead
// of) DefaultActions.
type Registerer func(reg *registry.Registry)

// DefaultActions registers the built-in "sleep" and "print" action types.
// print writes to outW so its output lands wherever the app's own output
// goes.
func DefaultActions(outW io.Writer) Registerer {
	return func(reg *registry.Registry) {
		reg.Register("sleep", actions.Sleep)
		reg.Register("print", actions.NewPrint(outW))
	}
}

// App encapsulates the application's dependencies and configuration for a
// single graph run.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	graph    *objgraph.Graph
}

// NewApp constructs an App: it configures an isolated logger from config
// and populates a fresh registry, defaulting to DefaultActions when no
// registerers are supplied.
func NewApp(outW io.Writer, config *Config, registerers ...Registerer) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("logger configured")

	reg := registry.New()
	if len(registerers) == 0 {
		registerers = []Registerer{DefaultActions(outW)}
	}
	for _, r := range registerers {
		r(reg)
	}
	logger.Debug("action registry populated")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   config,
	}
}

// Registry returns the application's action registry, primarily for tests.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// snapshot is the JSON shape the healthcheck endpoint reports: a count of
// nodes per lifecycle state.
type snapshot struct {
	TotalNodes int            `json:"total_nodes"`
	States     map[string]int `json:"states"`
}

func (a *App) snapshot() snapshot {
	s := snapshot{States: make(map[string]int)}
	if a.graph == nil {
		return s
	}
	nodes := a.graph.Nodes()
	s.TotalNodes = len(nodes)
	for _, n := range nodes {
		s.States[n.State().String()]++
	}
	return s
}

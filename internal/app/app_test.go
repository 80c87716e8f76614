package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/app"
)

func writeGraphFile(t *testing.T, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.tgraph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunExecutesGraphAndReportsCompletion(t *testing.T) {
	path := writeGraphFile(t, `
operation "greet" {
  type = "print"
  arguments {
    message = "hello"
  }
}
`)
	var out bytes.Buffer
	cfg, err := app.NewConfig(app.Config{GraphPath: path, GlobalCap: 1, LogLevel: "error"})
	require.NoError(t, err)

	a := app.NewApp(&out, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "hello")
}

func TestRunFailsOnMissingGraphPath(t *testing.T) {
	var out bytes.Buffer
	cfg, err := app.NewConfig(app.Config{GraphPath: filepath.Join(t.TempDir(), "missing.tgraph.hcl"), GlobalCap: 1, LogLevel: "error"})
	require.NoError(t, err)

	a := app.NewApp(&out, cfg)
	assert.Error(t, a.Run(context.Background()))
}

func TestRegistryExposesRegisteredActions(t *testing.T) {
	path := writeGraphFile(t, `
operation "noop" {
  type = "sleep"
  arguments {
    milliseconds = 0
  }
}
`)
	var out bytes.Buffer
	cfg, err := app.NewConfig(app.Config{GraphPath: path, GlobalCap: 1, LogLevel: "error"})
	require.NoError(t, err)

	a := app.NewApp(&out, cfg)
	assert.True(t, a.Registry().Has("sleep"))
	assert.True(t, a.Registry().Has("print"))
}

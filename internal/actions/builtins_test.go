package actions_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/actions"
	"github.com/zclconf/go-cty/cty"
)

func TestSleepWaitsForConfiguredDuration(t *testing.T) {
	args := cty.ObjectVal(map[string]cty.Value{"milliseconds": cty.NumberIntVal(5)})
	action, err := actions.Sleep(args)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, action(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestSleepRejectsMissingArgument(t *testing.T) {
	_, err := actions.Sleep(cty.EmptyObjectVal)
	require.Error(t, err)
}

func TestSleepReturnsEarlyOnCancellation(t *testing.T) {
	args := cty.ObjectVal(map[string]cty.Value{"milliseconds": cty.NumberIntVal(1000)})
	action, err := actions.Sleep(args)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = action(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrintWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	factory := actions.NewPrint(&buf)
	action, err := factory(cty.ObjectVal(map[string]cty.Value{"message": cty.StringVal("hello")}))
	require.NoError(t, err)

	require.NoError(t, action(context.Background()))
	assert.Equal(t, "hello\n", buf.String())
}

func TestPrintRejectsMissingArgument(t *testing.T) {
	var buf bytes.Buffer
	factory := actions.NewPrint(&buf)
	_, err := factory(cty.EmptyObjectVal)
	require.Error(t, err)
}

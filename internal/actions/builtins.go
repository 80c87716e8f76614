// Package actions provides the small set of built-in action factories that
// ship with the taskgraph CLI: "sleep" (a parametrized delay, handy for
// demos and for exercising cancellation) and "print" (writes a line to the
// run's configured output).
package actions

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Sleep is the "sleep" action factory. It expects an object argument with a
// "milliseconds" number attribute and returns an action that waits that
// long, or returns ctx.Err() early if the run is cancelled first.
func Sleep(args cty.Value) (graphcore.Action, error) {
	ms, err := requiredInt(args, "sleep", "milliseconds")
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}, nil
}

// NewPrint builds the "print" action factory, writing each operation's
// "message" string attribute to w.
func NewPrint(w io.Writer) registry.ActionFactory {
	return func(args cty.Value) (graphcore.Action, error) {
		msg, err := requiredString(args, "print", "message")
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			_, err := fmt.Fprintln(w, msg)
			return err
		}, nil
	}
}

func requiredInt(args cty.Value, action, attr string) (int64, error) {
	v, err := requiredAttr(args, action, attr)
	if err != nil {
		return 0, err
	}
	var out int64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, fmt.Errorf("%s: invalid %q: %w", action, attr, err)
	}
	return out, nil
}

func requiredString(args cty.Value, action, attr string) (string, error) {
	v, err := requiredAttr(args, action, attr)
	if err != nil {
		return "", err
	}
	var out string
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return "", fmt.Errorf("%s: invalid %q: %w", action, attr, err)
	}
	return out, nil
}

func requiredAttr(args cty.Value, action, attr string) (cty.Value, error) {
	if args.IsNull() || !args.Type().IsObjectType() {
		return cty.NilVal, fmt.Errorf("%s: expected an object of arguments", action)
	}
	if !args.Type().HasAttribute(attr) {
		return cty.NilVal, fmt.Errorf("%s: missing required argument %q", action, attr)
	}
	return args.GetAttr(attr), nil
}

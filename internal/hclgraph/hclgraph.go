// Package hclgraph is the declarative front-end: it decodes one or more
// ".tgraph.hcl" files into pool and operation blocks and builds the graph
// they describe through internal/objgraph, resolving each operation's
// action type through an internal/registry.Registry.
package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/fsutil"
	"github.com/vk/taskgraph/internal/graphcore"
	"github.com/vk/taskgraph/internal/objgraph"
	"github.com/vk/taskgraph/internal/pool"
	"github.com/vk/taskgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// graphFileExtension is the suffix LoadDir looks for.
const graphFileExtension = ".tgraph.hcl"

// Load decodes a single HCL file and builds the graph it describes.
func Load(ctx context.Context, reg *registry.Registry, path string) (*objgraph.Graph, error) {
	cfg, err := decodeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return build(reg, cfg)
}

// LoadDir decodes every ".tgraph.hcl" file under root, merges their pool and
// operation blocks, and builds the combined graph. Operation names must be
// unique across the whole set of files, so operations in different files
// can freely depend on each other.
func LoadDir(ctx context.Context, reg *registry.Registry, root string) (*objgraph.Graph, error) {
	paths, err := fsutil.FindFilesByExtension(root, graphFileExtension)
	if err != nil {
		return nil, fmt.Errorf("hclgraph: scanning %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("no %s files found under %s", graphFileExtension, root)}
	}

	merged := &graphConfig{}
	for _, path := range paths {
		cfg, err := decodeFile(ctx, path)
		if err != nil {
			return nil, err
		}
		merged.Pools = append(merged.Pools, cfg.Pools...)
		merged.Operations = append(merged.Operations, cfg.Operations...)
	}
	return build(reg, merged)
}

func decodeFile(ctx context.Context, path string) (*graphConfig, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("decoding graph file", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclgraph: parsing %s: %s", path, diags.Error())
	}

	var cfg graphConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("hclgraph: decoding %s: %s", path, diags.Error())
	}
	return &cfg, nil
}

// build turns a decoded graphConfig into an objgraph.Graph: pools first,
// then one node per operation, then edges, in that order so depends_on can
// reference any operation regardless of declaration order within or across
// files.
func build(reg *registry.Registry, cfg *graphConfig) (*objgraph.Graph, error) {
	pools, err := buildPools(cfg.Pools)
	if err != nil {
		return nil, err
	}

	g := objgraph.New()
	nodesByName := make(map[string]*graphcore.Node, len(cfg.Operations))

	for _, op := range cfg.Operations {
		if _, exists := nodesByName[op.Name]; exists {
			return nil, &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("operation %q is declared more than once", op.Name)}
		}

		var p *pool.Pool
		if op.Pool != "" {
			var ok bool
			p, ok = pools[op.Pool]
			if !ok {
				return nil, &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("operation %q references undeclared pool %q", op.Name, op.Pool)}
			}
		}

		args, err := decodeArguments(op.Arguments)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", op.Name, err)
		}

		action, err := reg.Build(op.Type, args)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", op.Name, err)
		}

		nodesByName[op.Name] = g.AddNode(op.Weight, p, action)
	}

	for _, op := range cfg.Operations {
		n := nodesByName[op.Name]
		for _, depName := range op.DependsOn {
			dep, ok := nodesByName[depName]
			if !ok {
				return nil, &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("operation %q depends on undeclared operation %q", op.Name, depName)}
			}
			if err := g.AddEdge(n, dep); err != nil {
				return nil, fmt.Errorf("operation %q depends_on %q: %w", op.Name, depName, err)
			}
		}
	}

	return g, nil
}

func buildPools(blocks []*poolBlock) (map[string]*pool.Pool, error) {
	pools := make(map[string]*pool.Pool, len(blocks))
	for _, b := range blocks {
		if _, exists := pools[b.Name]; exists {
			return nil, &graphcore.InvalidArgumentError{Msg: fmt.Sprintf("pool %q is declared more than once", b.Name)}
		}
		p, err := pool.New(b.Name, b.MaxParallelism)
		if err != nil {
			return nil, fmt.Errorf("pool %q: %w", b.Name, err)
		}
		pools[b.Name] = p
	}
	return pools, nil
}

// decodeArguments evaluates an operation's free-form arguments block into a
// single cty object value, one attribute per declared argument. There's no
// fixed schema to decode against here, since action factories each validate
// their own attributes, so this just reads whatever attributes are present
// and evaluates their literal expressions.
func decodeArguments(block *ArgumentsBlock) (cty.Value, error) {
	if block == nil {
		return cty.EmptyObjectVal, nil
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("decoding arguments: %s", diags.Error())
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return cty.NilVal, fmt.Errorf("evaluating argument %q: %s", name, diags.Error())
		}
		values[name] = v
	}
	return cty.ObjectVal(values), nil
}

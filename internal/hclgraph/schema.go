package hclgraph

import "github.com/hashicorp/hcl/v2"

// ArgumentsBlock is the free-form `arguments { ... }` block inside an
// operation: its attributes become the cty.Value passed to the action
// factory, so there's no fixed schema for every action type here — each
// factory validates its own attributes.
type ArgumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// poolBlock is a `pool "name" { max_parallelism = N }` block.
type poolBlock struct {
	Name           string `hcl:"name,label"`
	MaxParallelism int    `hcl:"max_parallelism"`
}

// operationBlock is an `operation "name" { ... }` block.
type operationBlock struct {
	Name      string          `hcl:"name,label"`
	Type      string          `hcl:"type"`
	Weight    int             `hcl:"weight,optional"`
	Pool      string          `hcl:"pool,optional"`
	DependsOn []string        `hcl:"depends_on,optional"`
	Arguments *ArgumentsBlock `hcl:"arguments,block"`
}

// graphConfig is the top-level structure of a .tgraph.hcl file.
type graphConfig struct {
	Pools      []*poolBlock      `hcl:"pool,block"`
	Operations []*operationBlock `hcl:"operation,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

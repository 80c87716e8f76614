// Package graphcore implements the dependency graph model the scheduler
// runs against: nodes with weight, pool membership, an opaque asynchronous
// action, and atomically-tracked lifecycle state, plus the edge operations
// that wire them together. It holds no scheduling logic of its own —
// see internal/validator and internal/scheduler for that.
package graphcore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vk/taskgraph/internal/pool"
)

// Action is the opaque asynchronous work a node performs. It receives the
// run's cancellation signal as ctx and either returns nil (success) or a
// single error value (failure).
type Action func(ctx context.Context) error

// State is a node's lifecycle state.
type State int32

const (
	// NotStarted is the initial state of every node.
	NotStarted State = iota
	// ReadyToRun is assigned by the validator to every node admitted to a
	// run's run set.
	ReadyToRun
	// Running means the node's action is currently executing.
	Running
	// Completed means the action returned nil.
	Completed
	// Failed means the action returned a non-nil error, captured as the
	// node's failure payload.
	Failed
	// Skipped means a predecessor faulted, so the node's action never ran.
	Skipped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case ReadyToRun:
		return "ReadyToRun"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	case Skipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Node is a single vertex in the execution graph: one operation with
// predecessors, a weight tie-break, optional pool membership, and an
// action invoked at most once.
type Node struct {
	id     int64
	weight int
	pool   *pool.Pool
	action Action

	state atomic.Int32

	failureMu sync.Mutex
	failure   error

	// edgeMu guards predecessors/successors during graph construction.
	// Builder-time edits all take the package-level buildMu first (see
	// builder.go); edgeMu additionally protects a single node's own maps
	// from concurrent readers once a run is under way, though by
	// invariant 4 nothing writes them after NotStarted.
	edgeMu       sync.RWMutex
	predecessors map[int64]*Node
	successors   map[int64]*Node
}

// NewNode creates an operation node with the given priority weight and pool
// membership (nil selects the implicit default pool). Identity is assigned
// from a process-wide monotonic counter — see builder.go.
func NewNode(weight int, p *pool.Pool, action Action) *Node {
	n := &Node{
		id:           nextID(),
		weight:       weight,
		pool:         p,
		action:       action,
		predecessors: make(map[int64]*Node),
		successors:   make(map[int64]*Node),
	}
	n.state.Store(int32(NotStarted))
	return n
}

// ID returns the node's stable, process-wide-unique identity.
func (n *Node) ID() int64 { return n.id }

// Weight returns the node's priority tie-break; higher wins among ready
// siblings in the same pool.
func (n *Node) Weight() int { return n.weight }

// Pool returns the node's pool (nil means the implicit default pool).
func (n *Node) Pool() *pool.Pool { return n.pool }

// State atomically returns the node's current lifecycle state.
func (n *Node) State() State { return State(n.state.Load()) }

// Signaled reports whether the node has reached a terminal state.
func (n *Node) Signaled() bool {
	switch n.State() {
	case Completed, Failed, Skipped:
		return true
	default:
		return false
	}
}

// Faulted reports whether the node is signaled with an unfavorable outcome.
func (n *Node) Faulted() bool {
	switch n.State() {
	case Failed, Skipped:
		return true
	default:
		return false
	}
}

// FailurePayload returns the error captured when the node's action failed,
// or nil if it never failed.
func (n *Node) FailurePayload() error {
	n.failureMu.Lock()
	defer n.failureMu.Unlock()
	return n.failure
}

// Predecessors returns a snapshot of the nodes that must complete before n
// may run.
func (n *Node) Predecessors() []*Node {
	n.edgeMu.RLock()
	defer n.edgeMu.RUnlock()
	out := make([]*Node, 0, len(n.predecessors))
	for _, p := range n.predecessors {
		out = append(out, p)
	}
	return out
}

// Successors returns a snapshot of the nodes that depend on n.
func (n *Node) Successors() []*Node {
	n.edgeMu.RLock()
	defer n.edgeMu.RUnlock()
	out := make([]*Node, 0, len(n.successors))
	for _, s := range n.successors {
		out = append(out, s)
	}
	return out
}

// MarkReadyToRun unconditionally transitions the node to ReadyToRun. Used
// only by the validator while admitting a node to a run's run set, before
// the run starts and while nothing else can be racing on this node's
// state.
func (n *Node) MarkReadyToRun() {
	n.state.Store(int32(ReadyToRun))
}

// MarkRunning atomically transitions the node from ReadyToRun to Running,
// reporting whether this call performed the transition.
func (n *Node) MarkRunning() bool {
	return n.state.CompareAndSwap(int32(ReadyToRun), int32(Running))
}

// Complete atomically transitions the node from Running to Completed,
// reporting whether this call performed the transition. It returns false
// if the node was concurrently marked Skipped by a failing predecessor —
// in which case Skipped must stand, per the monotonicity rule in
// Skip's doc comment.
func (n *Node) Complete() bool {
	return n.state.CompareAndSwap(int32(Running), int32(Completed))
}

// Fail atomically transitions the node from Running to Failed and records
// err as its failure payload, reporting whether this call performed the
// transition (false if a concurrent Skip already claimed the node, in which
// case no payload is recorded).
func (n *Node) Fail(err error) bool {
	if !n.state.CompareAndSwap(int32(Running), int32(Failed)) {
		return false
	}
	n.setFailure(err)
	return true
}

// Skip transitions the node to Skipped from any pre-terminal state,
// tolerating a concurrent writer: if the node has already reached a
// terminal state (including a prior Skip), this is a no-op and returns
// false. This is the single gate that makes skip-propagation monotone: a
// node that finishes Completed/Failed a moment after being marked Skipped
// never un-skips, because its own CAS back in Complete/Fail will fail once
// state is no longer Running.
func (n *Node) Skip() bool {
	for {
		cur := n.State()
		switch cur {
		case Completed, Failed, Skipped:
			return false
		}
		if n.state.CompareAndSwap(int32(cur), int32(Skipped)) {
			return true
		}
	}
}

// setFailure records the error captured by a failed action.
func (n *Node) setFailure(err error) {
	n.failureMu.Lock()
	n.failure = err
	n.failureMu.Unlock()
}

// Reset restores the node to NotStarted and clears its failure payload, for
// Execute's resetAfterDone option.
func (n *Node) Reset() {
	n.state.Store(int32(NotStarted))
	n.failureMu.Lock()
	n.failure = nil
	n.failureMu.Unlock()
}

// Run invokes the node's action under ctx. A nil action is treated as an
// immediate success, which lets tests and placeholder nodes omit it.
func (n *Node) Run(ctx context.Context) error {
	if n.action == nil {
		return nil
	}
	return n.action(ctx)
}

package graphcore

import (
	"sync"
	"sync/atomic"
)

// idCounter is the process-wide, monotonic source of node identity. It is
// package-level rather than per-builder because identities must stay
// unique across every node fed into a single Execute call regardless of
// which front-end (idgraph, objgraph, hclgraph) created it.
var idCounter atomic.Int64

func nextID() int64 {
	return idCounter.Add(1)
}

// buildMu is the single process-wide mutex guarding edge mutations, so that
// concurrent callers building different graphs (or different parts of the
// same graph) observe a consistent predecessor/successor view.
var buildMu sync.Mutex

// AddPredecessor records p as a predecessor of n (p must finish before n
// may run) and, symmetrically, n as a successor of p. Duplicates are
// silently ignored. Returns InvalidStateError if n has left NotStarted.
func AddPredecessor(n, p *Node) error {
	if n == p {
		return &InvalidArgumentError{Msg: "a node cannot depend on itself"}
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	if n.State() != NotStarted {
		return &InvalidStateError{NodeID: n.id, State: n.State()}
	}

	n.edgeMu.Lock()
	n.predecessors[p.id] = p
	n.edgeMu.Unlock()

	p.edgeMu.Lock()
	p.successors[n.id] = n
	p.edgeMu.Unlock()

	return nil
}

// RemovePredecessor is the exact inverse of AddPredecessor. Removing an
// edge that doesn't exist is a no-op.
func RemovePredecessor(n, p *Node) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	if n.State() != NotStarted {
		return &InvalidStateError{NodeID: n.id, State: n.State()}
	}

	n.edgeMu.Lock()
	delete(n.predecessors, p.id)
	n.edgeMu.Unlock()

	p.edgeMu.Lock()
	delete(p.successors, n.id)
	p.edgeMu.Unlock()

	return nil
}

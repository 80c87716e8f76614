package graphcore

import "fmt"

// InvalidArgumentError reports a malformed call into the graph builder or
// scheduler: a bad global cap, a duplicate id, an unknown dependency, a
// missing action.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("taskgraph: invalid argument: %s", e.Msg)
}

// InvalidStateError reports an edge edit attempted after a node has left
// the NotStarted state.
type InvalidStateError struct {
	NodeID int64
	State  State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("taskgraph: node %d: cannot edit edges in state %s", e.NodeID, e.State)
}

// CycleError reports a cycle found either before traversal (non-signaled
// nodes unreachable from any root) or during Kahn peeling.
type CycleError struct {
	Reason string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("taskgraph: cycle detected: %s", e.Reason)
}

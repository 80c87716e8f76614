package scheduler

import "github.com/vk/taskgraph/internal/graphcore"

// propagateSkip walks successors(n) transitively, marking every reachable
// node Skipped. This is transitive and eager, per the design notes: a
// successor that is itself already Running is tolerated — its state is
// overwritten to Skipped here, and the in-flight action's own eventual
// Complete/Fail call fails its CAS and leaves Skipped standing. The walk
// stops at any node that Skip reports as already signaled, since its own
// successors were (or will be) covered by whichever call skipped it first.
func propagateSkip(n *graphcore.Node) {
	queue := n.Successors()
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.Skip() {
			queue = append(queue, s.Successors()...)
		}
	}
}

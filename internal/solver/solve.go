package solver

import (
	"context"
	"fmt"
)

// Debug gates expensive invariant assertions during Solve, in the teacher's
// style of optional assertions (internal/board's perft/check-detection test
// helpers): off by default, since the checks walk every decrement.
var Debug = false

func checkRemainingNonNegative(n int32, node int32, side string) {
	if Debug && n < 0 {
		panic(fmt.Sprintf("solver: remaining[%d][%s] went negative", node, side))
	}
}

// remaining counts, per node, how many of that node's X-moves (or O-moves)
// still point at an unresolved successor. It starts at the node's
// out-degree and is decremented as successors resolve; reaching zero means
// every move available to that side-to-move forces a loss.
type remaining struct {
	x, o []int32
}

// reverseEdges holds, for every node, the predecessors that reach it via an
// X-move or an O-move — the graph the BFS actually walks, since retrograde
// solving propagates backward from terminals.
type reverseEdges struct {
	x, o [][]int32
}

func buildReverse(g *Graph) *reverseEdges {
	r := &reverseEdges{x: make([][]int32, g.NodeCount()), o: make([][]int32, g.NodeCount())}
	for p, succs := range g.EdgesX {
		for _, s := range succs {
			r.x[s] = append(r.x[s], int32(p))
		}
	}
	for p, succs := range g.EdgesO {
		for _, s := range succs {
			r.o[s] = append(r.o[s], int32(p))
		}
	}
	return r
}

// Solve labels every node in g by two-pass retrograde backward induction
// over g's reverse edges, following the stored convention [+1,+1] for an
// X-win terminal and [-1,-1] for an O-win terminal. This is the same
// algorithm, in the same two-pass shape, as original_source's
// DiG.solve() — seed from terminals, propagate the immediate predecessor,
// then propagate the forced-loss predecessor once every option of theirs is
// exhausted. Nodes left unlabelled by both passes are draws: the strongly
// connected components neither propagation can reach.
func (g *Graph) Solve(ctx context.Context) {
	rev := buildReverse(g)
	rem := &remaining{x: make([]int32, g.NodeCount()), o: make([]int32, g.NodeCount())}
	for i := range rem.x {
		rem.x[i] = int32(len(g.EdgesX[i]))
		rem.o[i] = int32(len(g.EdgesO[i]))
	}

	g.propagateWins(ctx, rev, rem)
	g.propagateLosses(ctx, rev, rem)
}

// propagateWins is retrograde pass 1: seeded by X-win terminals (ValX == +1
// at this point means exactly that, since nothing else has been labelled
// yet), it marks every node from which X can force reaching one.
func (g *Graph) propagateWins(ctx context.Context, rev *reverseEdges, rem *remaining) {
	var queue []int32
	for i, v := range g.ValX {
		if v == 1 {
			queue = append(queue, int32(i))
		}
	}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		for _, p := range rev.x[t] {
			if g.ValX[p] == 1 {
				continue
			}
			g.ValX[p] = 1
			g.DepthX[p] = g.DepthO[t] + 1
			nodesSolvedCounter.Add(ctx, 1)

			for _, q := range rev.o[p] {
				rem.o[q]--
				checkRemainingNonNegative(rem.o[q], q, "O")
				if rem.o[q] == 0 && g.ValO[q] == 0 {
					g.ValO[q] = 1
					g.DepthO[q] = g.DepthX[p] + 1
					nodesSolvedCounter.Add(ctx, 1)
					queue = append(queue, q)
				}
			}
		}
	}
}

// propagateLosses is retrograde pass 2: symmetric to propagateWins, seeded
// by O-win terminals (ValO == -1), using O-edges for the immediate step and
// X-edges for the forced-loss step.
func (g *Graph) propagateLosses(ctx context.Context, rev *reverseEdges, rem *remaining) {
	var queue []int32
	for i, v := range g.ValO {
		if v == -1 {
			queue = append(queue, int32(i))
		}
	}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		for _, p := range rev.o[t] {
			if g.ValO[p] == -1 {
				continue
			}
			g.ValO[p] = -1
			g.DepthO[p] = g.DepthX[t] + 1
			nodesSolvedCounter.Add(ctx, 1)

			for _, q := range rev.x[p] {
				rem.x[q]--
				checkRemainingNonNegative(rem.x[q], q, "X")
				if rem.x[q] == 0 && g.ValX[q] == 0 {
					g.ValX[q] = -1
					g.DepthX[q] = g.DepthO[p] + 1
					nodesSolvedCounter.Add(ctx, 1)
					queue = append(queue, q)
				}
			}
		}
	}
}

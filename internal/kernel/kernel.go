// Package kernel implements the live rules of fading-piece m-in-a-row: legal
// moves, the oldest-stone eviction rule, and win detection. It has no notion
// of symmetry or perfect play — those live in internal/symmetry and
// internal/solver, which consume a Game the way a GUI or a CLI would.
package kernel

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned by Play when the target cell is already occupied.
var ErrIllegalMove = errors.New("kernel: cell already occupied")

// Mark identifies which player's stone (if any) sits in a cell.
type Mark int8

const (
	Empty Mark = 0
	X     Mark = 1
	O     Mark = -1
)

// Game is a live fading-piece position on an N×N board with a per-player
// stone cap M. Cells are numbered row-major in [0, N*N). X always moves
// first; side-to-move is implied by the length of history.
//
// Game mirrors the teacher's board.Position in spirit: queues are the
// authoritative state, and grid is a derived O(1)-lookup cache kept in sync
// on every Play.
type Game struct {
	n, m    int
	grid    []int8 // derived cache: grid[cell] == int8(mark)
	x, o    []int  // stone queues, oldest first, length <= m
	history []int  // cells played, in order
}

// New creates an empty N×N board with per-player stone cap m.
func New(n, m int) *Game {
	g := &Game{n: n, m: m}
	g.Reset()
	return g
}

// Reset clears the board, queues, and history, keeping N and M.
func (g *Game) Reset() {
	g.grid = make([]int8, g.n*g.n)
	g.x = g.x[:0]
	g.o = g.o[:0]
	g.history = g.history[:0]
}

// N returns the board side length.
func (g *Game) N() int { return g.n }

// M returns the per-player stone cap (also the win length).
func (g *Game) M() int { return g.m }

// HistoryLen returns the number of stones played so far.
func (g *Game) HistoryLen() int { return len(g.history) }

// sideToMove returns the mark of the player whose turn it is.
func (g *Game) sideToMove() Mark {
	if len(g.history)%2 == 0 {
		return X
	}
	return O
}

// At returns the mark occupying cell as an int (0 empty, 1 X, -1 O), per
// the Game interface other components consume.
func (g *Game) At(cell int) int { return int(g.grid[cell]) }

// MarkAt is the Mark-typed equivalent of At, for callers already working in
// this package's own vocabulary.
func (g *Game) MarkAt(cell int) Mark { return Mark(g.grid[cell]) }

// XQueue returns the X player's stones, oldest first. The returned slice is
// owned by the caller.
func (g *Game) XQueue() []int { return append([]int(nil), g.x...) }

// OQueue returns the O player's stones, oldest first.
func (g *Game) OQueue() []int { return append([]int(nil), g.o...) }

// Play places the side-to-move's stone on cell. If the mover's queue would
// exceed M stones, the oldest stone fades (is removed from the board) first.
// Play fails with ErrIllegalMove if cell is already occupied by either
// player; fading one's own oldest stone to make room is not an illegal-move
// condition, it is the defining rule of the variant.
func (g *Game) Play(cell int) error {
	if g.grid[cell] != int8(Empty) {
		return fmt.Errorf("%w: cell %d", ErrIllegalMove, cell)
	}

	mover := g.sideToMove()
	queue := &g.x
	if mover == O {
		queue = &g.o
	}

	*queue = append(*queue, cell)
	if len(*queue) > g.m {
		oldest := (*queue)[0]
		*queue = (*queue)[1:]
		g.grid[oldest] = int8(Empty)
	}
	g.grid[cell] = int8(mover)
	g.history = append(g.history, cell)
	return nil
}

// Result inspects only the most recently placed stone: any m-in-a-row must
// run through it, since no other cell changed since the previous check.
// Returns 0 if the last move did not complete a line, or the winning mark
// otherwise.
func (g *Game) Result() int {
	if len(g.history) == 0 {
		return int(Empty)
	}
	last := g.history[len(g.history)-1]
	return int(scanWin(g.grid, g.n, g.m, last, g.MarkAt(last)))
}

// scanWin checks whether mark has an m-in-a-row running through cell, the
// one cell every line candidate must pass through since it was the last one
// placed. grid is a row-major occupancy cache, one int8 per cell.
func scanWin(grid []int8, n, m, cell int, mark Mark) Mark {
	row, col := cell/n, cell%n
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		run := 1
		run += countDir(grid, n, row, col, d[0], d[1], mark)
		run += countDir(grid, n, row, col, -d[0], -d[1], mark)
		if run >= m {
			return mark
		}
	}
	return Empty
}

// countDir walks outward from (row, col) in direction (dr, dc), not
// including the starting cell, counting consecutive cells equal to mark.
func countDir(grid []int8, n, row, col, dr, dc int, mark Mark) int {
	count := 0
	r, c := row+dr, col+dc
	for r >= 0 && r < n && c >= 0 && c < n && Mark(grid[r*n+c]) == mark {
		count++
		r += dr
		c += dc
	}
	return count
}

// Winner decides the outcome of the position described by the X and O stone
// queues alone (oldest first, as produced by internal/symmetry), without
// requiring a live Game or its move history.
//
// It deliberately does not use the last-move-only shortcut Result() does:
// once a player's queue has reached its cap M, the current occupancy no
// longer determines who moved last (the same cell set is reachable with
// either player having just played — the queues alone lose the tie the way
// a tablebase's piece placement loses side-to-move once captures have
// happened). So every stone of each player, X's first, is checked for a
// completed line, not just the presumed most recent one.
//
// The solver uses this to label terminal nodes while enumerating canonical
// keys, where only queues, not a full replayed history, are available.
func Winner(n, m int, x, y []int) Mark {
	grid := make([]int8, n*n)
	for _, cell := range x {
		grid[cell] = int8(X)
	}
	for _, cell := range y {
		grid[cell] = int8(O)
	}
	for _, cell := range x {
		if scanWin(grid, n, m, cell, X) == X {
			return X
		}
	}
	for _, cell := range y {
		if scanWin(grid, n, m, cell, O) == O {
			return O
		}
	}
	return Empty
}

// Cell returns the row-major cell index for (row, col).
func Cell(n, row, col int) int { return row*n + col }

// RowCol decomposes a cell index back into (row, col) for a board of side n.
func RowCol(n, cell int) (row, col int) { return cell / n, cell % n }

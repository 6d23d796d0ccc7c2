package oracle

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/hailam/fadingrow/internal/symmetry"
)

// Game is the minimal live-position surface the oracle needs. kernel.Game
// satisfies this structurally; the oracle package declares its own copy so
// it never needs to import internal/kernel just to describe the shape it
// consumes.
type Game interface {
	Play(cell int) error
	Result() int
	Reset()
	XQueue() []int
	OQueue() []int
	HistoryLen() int
	At(cell int) int
	N() int
	M() int
}

// Oracle answers perfect-play queries against a solved, memory-mapped
// training table.
type Oracle interface {
	Query(key uint64) (Record, bool)
	MakeMove(g Game) error
	Close() error
}

// mmapOracle is the Oracle implementation backed by a read-only memory map
// of a file in the §6.3 format. It is safe for concurrent use: the mapping
// is established once at Open and never mutated, the same "open once, query
// many times lock-free" shape as the teacher's TranspositionTable.Probe.
type mmapOracle struct {
	data []byte // the whole mapped file; data[8:] is the record region
	n    int    // number of records
}

// codecCache shares symmetry codecs across every Oracle in the process:
// a Codec is a pure function of (n, m), so there is no reason for each
// Oracle (and each CachedOracle wrapping one) to rebuild its own
// permutation tables for the same board size.
var codecCache sync.Map // [2]int{n,m} -> *symmetry.Codec

func codecFor(n, m int) *symmetry.Codec {
	k := [2]int{n, m}
	if c, ok := codecCache.Load(k); ok {
		return c.(*symmetry.Codec)
	}
	c, _ := codecCache.LoadOrStore(k, symmetry.New(n, m))
	return c.(*symmetry.Codec)
}

// Open memory-maps the table at path and validates its header. It returns
// ErrFileFormat, never a panic, on a malformed file, so a caller can fall
// back to a non-oracle opponent.
func Open(path string) (Oracle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("oracle: stat %s: %w", path, err)
	}
	size := info.Size()
	if size < headerSize {
		return nil, fmt.Errorf("%w: %s is shorter than the header", ErrFileFormat, path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %w", ErrFileFormat, path, err)
	}

	numRecords := int(leUint64(data[0:8]))
	wantSize := int64(headerSize + recordSize*numRecords)
	if wantSize != size {
		unix.Munmap(data)
		return nil, fmt.Errorf("%w: %s declares %d records (expect size %d, got %d)",
			ErrFileFormat, path, numRecords, wantSize, size)
	}

	return &mmapOracle{data: data, n: numRecords}, nil
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// recordAt decodes the i'th record directly out of the mapped region,
// without copying the whole file into a slice of Records up front.
func (o *mmapOracle) recordAt(i int) Record {
	off := headerSize + i*recordSize
	return unmarshalRecord(o.data[off : off+recordSize])
}

// Query binary-searches the mapped, key-sorted record region for key.
func (o *mmapOracle) Query(key uint64) (Record, bool) {
	i := sort.Search(o.n, func(i int) bool {
		off := headerSize + i*recordSize
		return leUint64(o.data[off:off+8]) >= key
	})
	if i >= o.n {
		return Record{}, false
	}
	r := o.recordAt(i)
	if r.Key != key {
		return Record{}, false
	}
	return r, true
}

// Close unmaps the file. It is an error to call Query or MakeMove after
// Close.
func (o *mmapOracle) Close() error {
	if o.data == nil {
		return nil
	}
	err := unix.Munmap(o.data)
	o.data = nil
	return err
}

// MakeMove plays the oracle's chosen move for the side to move in g.
func (o *mmapOracle) MakeMove(g Game) error {
	return makeMoveVia(o, g)
}

// makeMoveVia implements move selection against any Oracle, so both
// mmapOracle and CachedOracle (which wraps one) share a single
// implementation rather than duplicating the successor-scan loop.
//
// Stored values are absolute (+1 always favors X, -1 always favors O: see
// the Record doc comment), not relative to whoever is moving. So the two
// sides search the same numbers in opposite directions: X, to move, wants
// the successor with the largest value; O wants the smallest value. Ties
// break toward the smallest depth when winning (win fastest) and the largest
// depth when losing (delay a loss longest). A key absent from the table is
// treated as a draw at depth 0, per §7's ErrNotFound-as-soft-value
// convention. A position whose last move already completed a line is not
// played on: makeMoveVia returns ErrNoMoves.
func makeMoveVia(o Oracle, g Game) error {
	if g.Result() != 0 {
		return ErrNoMoves
	}
	n, m := g.N(), g.M()
	codec := codecFor(n, m)

	xToMove := g.HistoryLen()%2 == 0

	bestCell := -1
	var bestVal int8
	var bestDepth uint16

	for cell := 0; cell < n*n; cell++ {
		if g.At(cell) != 0 {
			continue
		}

		x, y := g.XQueue(), g.OQueue()
		var succVal int8
		var succDepth uint16
		if xToMove {
			sx := appendCapped(x, cell, m)
			_, _, _, key, ok := codec.Canonicalize(sx, y)
			if !ok {
				continue
			}
			rec, found := o.Query(key)
			if found {
				// After X's move it is O's turn at the successor node.
				succVal, succDepth = rec.ValO, rec.DepthO
			}
		} else {
			sy := appendCapped(y, cell, m)
			_, _, _, key, ok := codec.Canonicalize(x, sy)
			if !ok {
				continue
			}
			rec, found := o.Query(key)
			if found {
				succVal, succDepth = rec.ValX, rec.DepthX
			}
		}

		if bestCell == -1 || betterFor(xToMove, succVal, succDepth, bestVal, bestDepth) {
			bestCell = cell
			bestVal = succVal
			bestDepth = succDepth
		}
	}

	if bestCell == -1 {
		return ErrNoMoves
	}
	return g.Play(bestCell)
}

// betterFor reports whether candidate (val, depth) is preferable to the
// current incumbent (bestVal, bestDepth) for the side identified by
// xToMove, under the absolute-value convention described on MakeMove.
func betterFor(xToMove bool, val int8, depth uint16, bestVal int8, bestDepth uint16) bool {
	if xToMove {
		if val != bestVal {
			return val > bestVal
		}
	} else {
		if val != bestVal {
			return val < bestVal
		}
	}
	// Equal outcome: prefer the shallower depth when winning (finish
	// fastest), the deeper depth when losing (survive longest); a draw
	// (val == 0) has no preference between candidates, so keep the
	// incumbent (fewer cells reordered) by reporting false on ties.
	winning := (xToMove && val > 0) || (!xToMove && val < 0)
	losing := (xToMove && val < 0) || (!xToMove && val > 0)
	switch {
	case winning:
		return depth < bestDepth
	case losing:
		return depth > bestDepth
	default:
		return false
	}
}

// appendCapped returns the queue produced by appending cell, dropping the
// oldest stone if that would exceed m — the same fading rule
// internal/solver's successorQueues applies during enumeration.
func appendCapped(q []int, cell, m int) []int {
	next := make([]int, len(q), len(q)+1)
	copy(next, q)
	next = append(next, cell)
	if len(next) > m {
		next = next[1:]
	}
	return next
}

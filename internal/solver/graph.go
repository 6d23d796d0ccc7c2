// Package solver builds the canonical-state game graph for a fading-piece
// configuration and labels every node by retrograde backward induction.
//
// The graph is stored as parallel slices indexed by node index, the same
// shape the teacher's internal/engine/transposition.go uses for its
// position table, generalized from a fixed-size replace-on-collision cache
// to an exact, growable store: retrograde solving needs every reachable
// state, not a lossy one.
package solver

import (
	"context"
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/hailam/fadingrow/internal/kernel"
	"github.com/hailam/fadingrow/internal/symmetry"
)

var (
	meter                  = otel.Meter("fadingrow/solver")
	nodesEnumeratedCounter, _ = meter.Int64Counter("solver_nodes_enumerated",
		metric.WithDescription("canonical nodes added to the graph during enumeration"))
	nodesSolvedCounter, _ = meter.Int64Counter("solver_nodes_solved",
		metric.WithDescription("nodes labelled win or lose during retrograde solving"))
)

// Graph is the canonical-state game graph for one (N, M) configuration.
// Every slice is indexed by node index; node 0 is whichever canonical key
// is discovered first (normally the empty board).
type Graph struct {
	N, M  int
	Codec *symmetry.Codec

	Keys []uint64

	// EdgesX[i] holds the node indices reachable by X playing from node i;
	// EdgesO[i] the same for O. Both are always populated for a
	// non-terminal node regardless of whose turn it really is there — the
	// solver labels "if X moved here" and "if O moved here" independently,
	// and only the side actually implied by a node's own queue lengths is
	// ever consulted by the oracle at play time.
	EdgesX [][]int32
	EdgesO [][]int32

	ValX, ValO     []int8
	DepthX, DepthO []uint16

	index *keyIndex
}

// NodeCount returns the number of canonical nodes discovered so far.
func (g *Graph) NodeCount() int { return len(g.Keys) }

// NodeIndex returns the node index for a canonical key, if present.
func (g *Graph) NodeIndex(key uint64) (int32, bool) { return g.index.get(key) }

// getOrCreate returns the node index for key, appending a new node (with
// empty edge lists and draw-valued labels) if key has not been seen before.
func (g *Graph) getOrCreate(key uint64) int32 {
	if idx, ok := g.index.get(key); ok {
		return idx
	}
	idx := int32(len(g.Keys))
	g.Keys = append(g.Keys, key)
	g.EdgesX = append(g.EdgesX, nil)
	g.EdgesO = append(g.EdgesO, nil)
	g.ValX = append(g.ValX, 0)
	g.ValO = append(g.ValO, 0)
	g.DepthX = append(g.DepthX, 0)
	g.DepthO = append(g.DepthO, 0)
	g.index.put(key, idx)
	nodesEnumeratedCounter.Add(context.Background(), 1)
	return idx
}

// successorQueues returns the queue produced by appending cell to q,
// dropping the oldest stone if that would exceed m.
func successorQueues(q []int, m, cell int) []int {
	next := make([]int, len(q), len(q)+1)
	copy(next, q)
	next = append(next, cell)
	if len(next) > m {
		next = next[1:]
	}
	return next
}

// Build enumerates every canonical state reachable for an N×N board with
// per-player cap M, recording edges for every empty cell a state could still
// receive a stone on. Enumeration stops once expectedCount canonical nodes
// have been found (a calibration constant supplied by the training driver,
// the same role original_source/strategies/perfect4x4_m4's EXPECTED_COUNT
// prompt plays) or once the raw key space is exhausted, whichever comes
// first. progress, if non-nil, is called periodically with the running
// node count.
func Build(n, m int, expectedCount int64, progress func(nodes int64)) (*Graph, error) {
	codec := symmetry.New(n, m)
	mod, ok := codec.Modulus()
	if !ok {
		return nil, errKeySpaceTooLarge(n, m)
	}
	hi, maxKey := bits.Mul64(mod, mod)
	if hi != 0 {
		return nil, errKeySpaceTooLarge(n, m)
	}

	g := &Graph{N: n, M: m, Codec: codec, index: newKeyIndex(1 << 16)}

	const progressInterval = 1 << 16
	var scanned int64
	for key := uint64(0); key < maxKey; key++ {
		scanned++
		if progress != nil && scanned%progressInterval == 0 {
			progress(int64(len(g.Keys)))
		}
		if expectedCount > 0 && int64(len(g.Keys)) >= expectedCount {
			break
		}

		x, y, ok := codec.Decode(key)
		if !ok {
			continue
		}
		_, _, _, canonKey, ok := codec.Canonicalize(x, y)
		if !ok || canonKey != key {
			continue // not a canonical representative; its representative handles it
		}

		idx := g.getOrCreate(key)
		if w := kernel.Winner(n, m, x, y); w != kernel.Empty {
			// Terminal: both slots carry the same sign, per the stored
			// convention (+1,+1 for an X win, -1,-1 for an O win).
			v := int8(1)
			if w == kernel.O {
				v = -1
			}
			g.ValX[idx] = v
			g.ValO[idx] = v
			continue
		}

		for cell := 0; cell < n*n; cell++ {
			if occupied(x, y, cell) {
				continue
			}
			xSucc := successorQueues(x, m, cell)
			_, _, _, xKey, ok := codec.Canonicalize(xSucc, y)
			if ok {
				xi := g.getOrCreate(xKey)
				g.EdgesX[idx] = append(g.EdgesX[idx], xi)
			}
			oSucc := successorQueues(y, m, cell)
			_, _, _, oKey, ok := codec.Canonicalize(x, oSucc)
			if ok {
				oi := g.getOrCreate(oKey)
				g.EdgesO[idx] = append(g.EdgesO[idx], oi)
			}
		}
	}
	if progress != nil {
		progress(int64(len(g.Keys)))
	}
	return g, nil
}

func occupied(x, y []int, cell int) bool {
	for _, c := range x {
		if c == cell {
			return true
		}
	}
	for _, c := range y {
		if c == cell {
			return true
		}
	}
	return false
}

// keyIndex is an open-addressed hash map from canonical key to node index,
// the same power-of-two-sized, explicit-hash shape as the teacher's
// transposition table, generalized from a fixed replace-on-collision slot
// to a growable exact index. Keys are hashed with xxhash rather than Go's
// built-in map hash, matching the teacher's habit of naming an explicit hash
// function for anything performance sensitive (there, to key Ristretto's
// cache; here, to key graph construction directly).
type keyIndex struct {
	slots []int32
	keys  []uint64
	mask  uint64
	count int
}

func newKeyIndex(capacityHint int) *keyIndex {
	size := 16
	for size < capacityHint {
		size *= 2
	}
	t := &keyIndex{slots: make([]int32, size), keys: make([]uint64, size), mask: uint64(size - 1)}
	for i := range t.slots {
		t.slots[i] = -1
	}
	return t
}

func hashKey(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return xxhash.Sum64(buf[:])
}

func (t *keyIndex) get(key uint64) (int32, bool) {
	i := hashKey(key) & t.mask
	for t.slots[i] != -1 {
		if t.keys[i] == key {
			return t.slots[i], true
		}
		i = (i + 1) & t.mask
	}
	return -1, false
}

func (t *keyIndex) put(key uint64, idx int32) {
	if t.count*2 >= len(t.slots) {
		t.grow()
	}
	t.putNoGrow(key, idx)
}

func (t *keyIndex) putNoGrow(key uint64, idx int32) {
	i := hashKey(key) & t.mask
	for t.slots[i] != -1 {
		if t.keys[i] == key {
			t.slots[i] = idx
			return
		}
		i = (i + 1) & t.mask
	}
	t.slots[i] = idx
	t.keys[i] = key
	t.count++
}

func (t *keyIndex) grow() {
	oldSlots, oldKeys := t.slots, t.keys
	size := len(t.slots) * 2
	t.slots = make([]int32, size)
	t.keys = make([]uint64, size)
	t.mask = uint64(size - 1)
	t.count = 0
	for i := range t.slots {
		t.slots[i] = -1
	}
	for i, s := range oldSlots {
		if s != -1 {
			t.putNoGrow(oldKeys[i], s)
		}
	}
}

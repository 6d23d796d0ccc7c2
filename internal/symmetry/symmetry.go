// Package symmetry canonicalizes fading-piece positions under the N×N
// dihedral group (order 8: identity, three rotations, two axis flips, two
// diagonal flips) and packs a canonical position into a single 64-bit key.
//
// The permutation tables are precomputed once per board size, the same
// "build the lookup table once in a constructor" shape as the teacher's
// internal/board/zobrist.go, generalized from a fixed 8×8 chessboard to an
// arbitrary N (N varies at runtime here; the teacher's board never does).
package symmetry

import "math/bits"

// NumSymmetries is the order of the dihedral group D4 acting on a square
// board: identity, rot90, rot180, rot270, and four reflections.
const NumSymmetries = 8

// Codec canonicalizes positions and encodes/decodes canonical keys for one
// (N, M) configuration. A Codec is immutable after construction and safe
// for concurrent use.
type Codec struct {
	n, m  int
	perms [NumSymmetries][]int // perms[sigma][oldCell] = newCell
}

// New builds a Codec for an n×n board with per-player stone cap m.
func New(n, m int) *Codec {
	c := &Codec{n: n, m: m}
	for sigma := 0; sigma < NumSymmetries; sigma++ {
		perm := make([]int, n*n)
		for cell := 0; cell < n*n; cell++ {
			perm[cell] = transformCell(n, sigma, cell)
		}
		c.perms[sigma] = perm
	}
	return c
}

// transformCell maps a single cell index through dihedral symmetry sigma on
// an n×n board: 0 identity, 1 and 3 the two quarter-turn rotations, 2
// half-turn, 4 horizontal flip, 5 vertical flip, 6 main-diagonal transpose,
// 7 anti-diagonal transpose. Verified element-for-element against the
// hand-written 3×3 and 4×4 permutation tables in this system's reference
// material.
func transformCell(n, sigma, cell int) int {
	r, c := cell/n, cell%n
	var nr, nc int
	switch sigma {
	case 0:
		nr, nc = r, c
	case 1:
		nr, nc = c, n-1-r
	case 2:
		nr, nc = n-1-r, n-1-c
	case 3:
		nr, nc = n-1-c, r
	case 4:
		nr, nc = r, n-1-c
	case 5:
		nr, nc = n-1-r, c
	case 6:
		nr, nc = c, r
	case 7:
		nr, nc = n-1-c, n-1-r
	default:
		panic("symmetry: sigma out of range")
	}
	return nr*n + nc
}

// Apply maps each cell in cells through symmetry sigma, preserving order.
// Order is preserved deliberately: the fading rule cares which stone is
// oldest, and symmetry never reorders time.
func (c *Codec) Apply(sigma int, cells []int) []int {
	perm := c.perms[sigma]
	out := make([]int, len(cells))
	for i, cell := range cells {
		out[i] = perm[cell]
	}
	return out
}

// base returns the digit base used by Encode/Decode: N²+1, reserving digit
// 0 to mean "no stone in this time slot".
func (c *Codec) base() uint64 { return uint64(c.n*c.n + 1) }

// Modulus returns b^M, the per-player code space size used to pack a key as
// kX*Modulus()+kY. It reports ok = false if b^M overflows 64 bits, which
// bounds the key space an enumerator (internal/solver) may scan.
func (c *Codec) Modulus() (uint64, bool) { return ipow(c.base(), c.m) }

// N returns the board side length this codec was built for.
func (c *Codec) N() int { return c.n }

// M returns the per-player stone cap this codec was built for.
func (c *Codec) M() int { return c.m }

// Encode packs the (x, y) queues into a single 64-bit key. It reports ok =
// false if the key would not fit in 64 bits for this (N, M) — this holds for
// all (N, M) actually solved in this system (up to (4,4)) and is a
// documented ceiling, not a silent wraparound, for larger configurations.
func (c *Codec) Encode(x, y []int) (key uint64, ok bool) {
	b := c.base()
	s, ok := ipow(b, c.m)
	if !ok {
		return 0, false
	}
	kx := digitSum(x, b)
	ky := digitSum(y, b)

	hi, lo := bits.Mul64(kx, s)
	if hi != 0 {
		return 0, false
	}
	sum, carry := bits.Add64(lo, ky, 0)
	if carry != 0 {
		return 0, false
	}
	return sum, true
}

// digitSum computes Σ (q[i]+1) * b^i. The caller must already have verified
// that b^len(q) fits in 64 bits (Encode does, via ipow), which bounds every
// partial sum here well under 2^64 — no per-term overflow check is needed.
func digitSum(q []int, b uint64) uint64 {
	var sum, pow uint64 = 0, 1
	for _, cell := range q {
		sum += uint64(cell+1) * pow
		pow *= b
	}
	return sum
}

// ipow computes base^exp, reporting ok = false on 64-bit overflow.
func ipow(base uint64, exp int) (uint64, bool) {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		hi, lo := bits.Mul64(result, base)
		if hi != 0 {
			return 0, false
		}
		result = lo
	}
	return result, true
}

// Decode reverses Encode. It rejects keys that do not correspond to a valid
// position: an interior zero digit (a gap in time), a cell repeated within
// or across queues, or a queue-length combination that violates the
// side-to-move invariant (|X| == |O| or |X| == |O|+1). This lets the
// enumerator (internal/solver) scan the raw key space directly without ever
// constructing a position object for an invalid key.
func (c *Codec) Decode(key uint64) (x, y []int, ok bool) {
	b := c.base()
	s, ok := ipow(b, c.m)
	if !ok {
		return nil, nil, false
	}
	kx, ky := key/s, key%s

	x, ok = decodeQueue(kx, b, c.m)
	if !ok {
		return nil, nil, false
	}
	y, ok = decodeQueue(ky, b, c.m)
	if !ok {
		return nil, nil, false
	}

	if !validLengths(len(x), len(y)) {
		return nil, nil, false
	}
	if !disjointAndUnique(x, y, c.n*c.n) {
		return nil, nil, false
	}
	return x, y, true
}

// decodeQueue extracts the base-b digits of code, oldest stone first,
// rejecting any zero digit (a time-slot gap) and any code requiring more
// than m digits.
func decodeQueue(code, b uint64, m int) ([]int, bool) {
	var q []int
	for code != 0 {
		if len(q) == m {
			return nil, false
		}
		d := code % b
		if d == 0 {
			return nil, false
		}
		q = append(q, int(d-1))
		code /= b
	}
	return q, true
}

func validLengths(lx, ly int) bool {
	return lx == ly || lx == ly+1
}

func disjointAndUnique(x, y []int, ncells int) bool {
	seen := make(map[int]bool, len(x)+len(y))
	for _, cell := range x {
		if cell < 0 || cell >= ncells || seen[cell] {
			return false
		}
		seen[cell] = true
	}
	for _, cell := range y {
		if cell < 0 || cell >= ncells || seen[cell] {
			return false
		}
		seen[cell] = true
	}
	return true
}

// Canonicalize returns the symmetry-minimal representative of (x, y): the
// transform sigma (and resulting queues/key) whose encoded key is smallest
// over all 8 dihedral symmetries. Ties are broken by the lowest symmetry
// index, which falls out naturally from scanning sigma in ascending order
// and only replacing the incumbent on a strictly smaller key.
func (c *Codec) Canonicalize(x, y []int) (cx, cy []int, sigma int, key uint64, ok bool) {
	found := false
	for s := 0; s < NumSymmetries; s++ {
		tx := c.Apply(s, x)
		ty := c.Apply(s, y)
		k, kok := c.Encode(tx, ty)
		if !kok {
			return nil, nil, 0, 0, false
		}
		if !found || k < key {
			found = true
			key = k
			sigma = s
			cx = tx
			cy = ty
		}
	}
	return cx, cy, sigma, key, true
}

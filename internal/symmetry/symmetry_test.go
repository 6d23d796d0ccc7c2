package symmetry

import "testing"

// TestTransformsMatch3x3Table cross-checks the general closed-form
// transforms against the hand-written 3×3 permutation tables from this
// system's reference material, element-for-element. The rows use the same
// sigma numbering as the 4×4 table below: sigma 1 moves cell 0 to the
// top-right corner, sigma 3 moves it to the bottom-left corner.
func TestTransformsMatch3x3Table(t *testing.T) {
	want := [NumSymmetries][9]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8},
		{2, 5, 8, 1, 4, 7, 0, 3, 6},
		{8, 7, 6, 5, 4, 3, 2, 1, 0},
		{6, 3, 0, 7, 4, 1, 8, 5, 2},
		{2, 1, 0, 5, 4, 3, 8, 7, 6},
		{6, 7, 8, 3, 4, 5, 0, 1, 2},
		{0, 3, 6, 1, 4, 7, 2, 5, 8},
		{8, 5, 2, 7, 4, 1, 6, 3, 0},
	}
	c := New(3, 3)
	for sigma := 0; sigma < NumSymmetries; sigma++ {
		for cell := 0; cell < 9; cell++ {
			got := c.perms[sigma][cell]
			if got != want[sigma][cell] {
				t.Errorf("sigma=%d cell=%d: got %d, want %d", sigma, cell, got, want[sigma][cell])
			}
		}
	}
}

// TestTransformsMatch4x4Table cross-checks against the 4×4 table.
func TestTransformsMatch4x4Table(t *testing.T) {
	want := [NumSymmetries][16]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{3, 7, 11, 15, 2, 6, 10, 14, 1, 5, 9, 13, 0, 4, 8, 12},
		{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		{12, 8, 4, 0, 13, 9, 5, 1, 14, 10, 6, 2, 15, 11, 7, 3},
		{3, 2, 1, 0, 7, 6, 5, 4, 11, 10, 9, 8, 15, 14, 13, 12},
		{12, 13, 14, 15, 8, 9, 10, 11, 4, 5, 6, 7, 0, 1, 2, 3},
		{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15},
		{15, 11, 7, 3, 14, 10, 6, 2, 13, 9, 5, 1, 12, 8, 4, 0},
	}
	c := New(4, 4)
	for sigma := 0; sigma < NumSymmetries; sigma++ {
		for cell := 0; cell < 16; cell++ {
			got := c.perms[sigma][cell]
			if got != want[sigma][cell] {
				t.Errorf("sigma=%d cell=%d: got %d, want %d", sigma, cell, got, want[sigma][cell])
			}
		}
	}
}

// TestEncodeDecodeRoundTrip checks Encode/Decode agree for a variety of
// queue shapes, including the side-to-move-implies-length-parity cases.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := New(3, 3)
	cases := []struct {
		x, y []int
	}{
		{[]int{4}, nil},
		{[]int{0, 8}, []int{4}},
		{[]int{0, 8, 6}, []int{4, 5}},
		{[]int{1, 8, 6}, []int{4, 5, 3}},
	}
	for _, tc := range cases {
		key, ok := c.Encode(tc.x, tc.y)
		if !ok {
			t.Fatalf("Encode(%v, %v): not ok", tc.x, tc.y)
		}
		gx, gy, ok := c.Decode(key)
		if !ok {
			t.Fatalf("Decode(%d) for %v/%v: not ok", key, tc.x, tc.y)
		}
		if !equalInts(gx, tc.x) || !equalInts(gy, tc.y) {
			t.Fatalf("round trip mismatch: got (%v,%v), want (%v,%v)", gx, gy, tc.x, tc.y)
		}
	}
}

// TestDecodeRejectsInteriorGap checks that a key whose X digits have a zero
// in a non-trailing position is rejected, since that would mean "no stone
// was played in this time slot", which cannot happen mid-queue.
func TestDecodeRejectsInteriorGap(t *testing.T) {
	c := New(3, 3)
	b := c.base()
	// Two digits: low digit 0 (gap), high digit 1 (cell 0). This is not a
	// key Encode can ever produce, since queues are always packed with no
	// gaps, but Decode must still reject it defensively.
	badKX := uint64(1) * b // digit0=0, digit1=1
	s, _ := ipow(b, 3)
	key := badKX*s + 0
	if _, _, ok := c.Decode(key); ok {
		t.Fatal("Decode accepted a key with an interior gap")
	}
}

// TestDecodeRejectsDuplicateCell checks that a key claiming the same cell
// for both players is rejected.
func TestDecodeRejectsDuplicateCell(t *testing.T) {
	c := New(3, 3)
	key, ok := c.Encode([]int{4}, nil)
	if !ok {
		t.Fatal("Encode: not ok")
	}
	// Manually construct a key where Y also claims cell 4.
	b := c.base()
	s, _ := ipow(b, 3)
	kx := key / s
	ky := uint64(4 + 1)
	bad := kx*s + ky
	if _, _, ok := c.Decode(bad); ok {
		t.Fatal("Decode accepted a key with a cell claimed by both players")
	}
}

// TestCanonicalizeIsSymmetryInvariant checks that canonicalizing a position
// and any of its 8 symmetric images yields the same canonical key, which is
// the entire point of canonicalization: the solver must treat symmetric
// positions as identical graph nodes.
func TestCanonicalizeIsSymmetryInvariant(t *testing.T) {
	c := New(3, 3)
	x := []int{0, 8, 6}
	y := []int{4, 5}

	_, _, _, wantKey, ok := c.Canonicalize(x, y)
	if !ok {
		t.Fatal("Canonicalize: not ok")
	}

	for sigma := 0; sigma < NumSymmetries; sigma++ {
		tx := c.Apply(sigma, x)
		ty := c.Apply(sigma, y)
		_, _, _, key, ok := c.Canonicalize(tx, ty)
		if !ok {
			t.Fatalf("Canonicalize(sigma=%d image): not ok", sigma)
		}
		if key != wantKey {
			t.Fatalf("sigma=%d: canonical key = %d, want %d", sigma, key, wantKey)
		}
	}
}

// TestCanonicalizeTieBreaksOnLowestSigma checks that when a position is
// itself invariant under some symmetry (equal minimal keys from two
// transforms), the lowest symmetry index wins.
func TestCanonicalizeTieBreaksOnLowestSigma(t *testing.T) {
	c := New(3, 3)
	// The empty board is invariant under every symmetry; sigma=0 must win.
	_, _, sigma, _, ok := c.Canonicalize(nil, nil)
	if !ok {
		t.Fatal("Canonicalize: not ok")
	}
	if sigma != 0 {
		t.Fatalf("sigma = %d, want 0 for the fully symmetric empty board", sigma)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package solver

import "fmt"

// errKeySpaceTooLarge reports that N, M cannot be enumerated with a 64-bit
// canonical key: the raw key space (N²+1)^(2M) reaches 2^64, as it does for
// N=M=7 (while N=M=5 and N=M=6 still fit). It is a configuration error, not
// a bug: callers should reject the request rather than silently truncate the
// key space.
func errKeySpaceTooLarge(n, m int) error {
	return fmt.Errorf("solver: N=%d M=%d requires more than 64 bits to key every (X,Y) pair", n, m)
}

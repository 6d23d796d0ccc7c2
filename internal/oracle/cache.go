package oracle

import (
	"github.com/dgraph-io/ristretto/v2"
)

// CachedOracle wraps another Oracle with a bounded, concurrent read-through
// cache, directly generalizing the teacher's hand-rolled CachedProber
// (internal/tablebase/cached.go: a map guarded by a mutex, evicting half the
// entries on overflow) to a proper admission-policy cache. Ristretto is
// already pulled in transitively through badger in this lineage; this is
// the first place it is used directly, because repeated perfect-play
// queries against a read-only table is exactly the workload it targets.
type CachedOracle struct {
	inner Oracle
	cache *ristretto.Cache[uint64, Record]
}

// NewCachedOracle wraps inner with an LRU-like cache sized for roughly
// maxRecords entries.
func NewCachedOracle(inner Oracle, maxRecords int64) (*CachedOracle, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, Record]{
		NumCounters: maxRecords * 10,
		MaxCost:     maxRecords,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedOracle{inner: inner, cache: cache}, nil
}

// Query consults the cache before falling through to inner.
func (c *CachedOracle) Query(key uint64) (Record, bool) {
	if r, ok := c.cache.Get(key); ok {
		return r, true
	}
	r, ok := c.inner.Query(key)
	if ok {
		c.cache.Set(key, r, 1)
	}
	return r, ok
}

// MakeMove runs the shared move-selection scan (makeMoveVia) against c
// itself, so every successor lookup it makes goes through c.Query above and
// benefits from the cache — the same repeated-position workload
// NewCachedOracle exists for.
func (c *CachedOracle) MakeMove(g Game) error {
	return makeMoveVia(c, g)
}

// Close releases the cache and the underlying oracle.
func (c *CachedOracle) Close() error {
	c.cache.Close()
	return c.inner.Close()
}

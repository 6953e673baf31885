package rcuhash

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/kvic-z/urcu/internal/rcu"
)

// Table is a fixed-size, separately chained hash table whose lookups are
// lock-free and whose mutations coordinate through internal/rcu rather
// than a mutex.
//
// Generalized from internal/race/shadowmem's CASBasedShadow: that type is
// a flat open-addressed array of atomic.Pointer slots with linear
// probing; Table keeps the same fixed-size array-of-atomic-pointers
// backbone but each slot is a bucket-chain head rather than a single
// cell, matching the reference design's explicit separate-chaining data
// model.
//
// Table does not resize. size.add and size.lookup in the reference design
// are already identical cached copies of the same bucket count — a
// provision for a future resize this port does not implement — so Table
// keeps a single bucket count rather than carrying two fields that would
// always be equal.
type Table struct {
	buckets  []atomic.Pointer[node]
	size     uint64
	hashFn   HashFunc
	freeFn   func(unsafe.Pointer)
	hashseed uint64
	metrics  *tableMetrics
}

// Option configures a Table at construction time.
type Option func(*Table)

// WithHashFunc overrides the default xxhash-based HashFunc.
func WithHashFunc(fn HashFunc) Option {
	return func(t *Table) { t.hashFn = fn }
}

// WithFreeFunc registers a payload destructor invoked by Delete and
// DeleteAll once a grace period after the owning node is unlinked. Add and
// Steal never call it: Steal transfers payload ownership back to the
// caller, so only Delete and DeleteAll (which never return the payload)
// need it.
func WithFreeFunc(fn func(unsafe.Pointer)) Option {
	return func(t *Table) { t.freeFn = fn }
}

// WithSeed sets the per-instance hash seed folded into every hash
// computation, so two tables given different seeds do not bucket an
// identical key set identically. Defaults to a fixed constant if unset,
// so tables built without WithSeed all share the same bucketing.
func WithSeed(seed uint64) Option {
	return func(t *Table) { t.hashseed = seed }
}

// New constructs a Table with nbuckets fixed buckets. nbuckets must be a
// positive power of two; otherwise New returns a nil Table and
// ErrInvalidSize, the same way the reference design returns a null table
// on a malformed construction parameter rather than treating it as a
// crashing programmer error.
func New(nbuckets int, opts ...Option) (*Table, error) {
	if nbuckets <= 0 || nbuckets&(nbuckets-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, nbuckets)
	}
	t := &Table{
		buckets:  make([]atomic.Pointer[node], nbuckets),
		size:     uint64(nbuckets),
		hashFn:   xxhashKey,
		hashseed: 0x9e3779b97f4a7c15, // golden-ratio constant, same family as fastHash in shadow_cas.go
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

func (t *Table) bucketIndex(key uintptr) uint64 {
	return t.hashFn(key, t.hashseed) & (t.size - 1)
}

// Reader obtains a registered rcu.Reader handle for the calling goroutine.
// Every goroutine that calls Lookup/Add/Steal/Delete/DeleteAll on this (or
// any) Table must hold its own Reader and must not share it with another
// goroutine, mirroring internal/rcu.Reader's single-owner contract.
func (t *Table) Reader() *rcu.Reader {
	return rcu.RegisterThread()
}

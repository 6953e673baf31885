package rcuhash

import (
	"unsafe"

	"github.com/kvic-z/urcu/internal/rcu"
)

// Lookup returns the payload stored under key, or (nil, false) if no node
// with that key is present.
//
// Lock-free; scales to arbitrary reader parallelism. Performs no
// allocation and no compare-and-swap: it is a single bucket-head load
// followed by an acquire-ordered chain walk, bracketed by r's read
// section.
func (t *Table) Lookup(r *rcu.Reader, key uintptr) (unsafe.Pointer, bool) {
	r.ReadLock()
	defer r.ReadUnlock()

	if t.metrics != nil {
		t.metrics.lookups.Add(1)
	}

	idx := t.bucketIndex(key)
	n := t.buckets[idx].Load()
	for n != nil {
		if n.key == key {
			return n.data, true
		}
		n = n.next.Load()
	}
	if t.metrics != nil {
		t.metrics.lookupMiss.Add(1)
	}
	return nil, false
}

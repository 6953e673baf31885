package rcuhash

import (
	"unsafe"

	"github.com/kvic-z/urcu/internal/rcu"
)

// DeleteAll removes every node currently present and returns the count
// removed.
//
// Per bucket: enter a read section, atomically swap the bucket head with
// nil, taking exclusive ownership of the entire chain in one step, then
// walk it one hop at a time — at each node, swap its next pointer with
// nil to detach it (a concurrent Lookup may still hold a reference to it),
// release the read section, schedule its payload and the node itself for
// deferred free, count it, and re-enter a read section for the next hop.
//
// Safe against concurrent Add: Add only ever touches a bucket head, so any
// Add that wins the head after DeleteAll's swap is simply not part of the
// chain DeleteAll took ownership of, and is left untouched. Safe against
// concurrent Lookup and Steal for the same reason every other mutation
// here is: nothing is freed until a grace period proves no reader can
// still be traversing it.
func (t *Table) DeleteAll(r *rcu.Reader) int {
	count := 0
	for i := range t.buckets {
		r.ReadLock()
		chain := t.buckets[i].Swap(nil)
		r.ReadUnlock()

		for chain != nil {
			r.ReadLock()
			next := chain.next.Swap(nil)
			r.ReadUnlock()

			if t.freeFn != nil {
				rcu.DeferFree(t.freeFn, chain.data)
			}
			unlinked := chain
			rcu.DeferFree(func(unsafe.Pointer) {
				unlinked.next.Store(nil)
			}, nil)
			count++
			chain = next
		}
	}
	if t.metrics != nil {
		t.metrics.deletes.Add(uint64(count))
	}
	return count
}

// Destroy removes every remaining node via DeleteAll. Callers must
// guarantee no reader or writer touches t after this returns; Destroy
// itself performs no further cleanup because the bucket array and Table
// value are ordinary Go-managed memory the garbage collector reclaims
// once nothing references t.
func (t *Table) Destroy(r *rcu.Reader) int {
	return t.DeleteAll(r)
}

package rcuhash

import (
	"unsafe"

	"github.com/kvic-z/urcu/internal/rcu"
)

// Add inserts a new node for key, or returns ErrExist if key is already
// present.
//
// Protocol: insert-or-fail-on-duplicate. Allocate the node up front, then
// loop: enter a read section, snapshot the bucket head,
// walk the chain for a duplicate, link the new node's next to the
// snapshot, and compare-and-swap the bucket head from snapshot to the new
// node. Always inserting at the head means any concurrent successful
// insert changes the head first, so a stale CAS fails and forces
// re-validation of the whole chain — no duplicate can slip through a
// narrow window. The read section is released and re-entered between CAS
// attempts rather than held across an unbounded retry loop, so a
// contended bucket does not pin a reader indefinitely and block a writer
// elsewhere from ever observing this goroutine quiescent.
func (t *Table) Add(r *rcu.Reader, key uintptr, data unsafe.Pointer) error {
	n := newNode(key, data)
	for {
		r.ReadLock()
		idx := t.bucketIndex(key)
		head := t.buckets[idx].Load()
		for cur := head; cur != nil; cur = cur.next.Load() {
			if cur.key == key {
				r.ReadUnlock()
				return ErrExist
			}
		}
		n.next.Store(head)
		if t.buckets[idx].CompareAndSwap(head, n) {
			r.ReadUnlock()
			if t.metrics != nil {
				t.metrics.adds.Add(1)
			}
			return nil
		}
		r.ReadUnlock()
	}
}

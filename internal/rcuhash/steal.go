package rcuhash

import (
	"unsafe"

	"github.com/kvic-z/urcu/internal/rcu"
)

// Steal unlinks the node for key and returns its payload, transferring
// ownership to the caller. Returns ErrNotExist if no node with that key is
// present (or if it is being concurrently stolen by another goroutine).
//
// Two stealers can momentarily observe the same node through different
// chains: one directly, one through a predecessor's stale next pointer
// captured just before that predecessor was itself unlinked. The node's
// flags field elects exactly one of them — whichever wins the
// compare-and-swap from 0 to stolenFlag — to perform the unlink and own
// reclamation; the loser treats the key as already gone. After every
// attempt to unlink (whether the compare-and-swap on the predecessor's
// link succeeded or not) Steal releases its read section and re-walks the
// chain from the bucket head, because a concurrent stealer of an adjacent
// node may have captured a next pointer that still threads through a node
// this call already marked stolen; only a fresh walk that reaches the
// chain's end without encountering key again confirms no live chain still
// references the unlinked node.
func (t *Table) Steal(r *rcu.Reader, key uintptr) (unsafe.Pointer, error) {
	var claimed, delNode *node

	for {
		r.ReadLock()
		idx := t.bucketIndex(key)
		prev := &t.buckets[idx]
		cur := prev.Load()
		found := false

		for cur != nil {
			if cur.key == key {
				found = true
				if claimed == nil {
					if !cur.tryMarkStolen() {
						r.ReadUnlock()
						return nil, ErrNotExist
					}
					claimed = cur
				}
				next := cur.next.Load()
				if prev.CompareAndSwap(cur, next) {
					delNode = cur
				}
				break
			}
			prev = &cur.next
			cur = cur.next.Load()
		}
		r.ReadUnlock()

		if !found {
			if delNode == nil {
				return nil, ErrNotExist
			}
			payload := delNode.data
			unlinked := delNode
			rcu.DeferFree(func(unsafe.Pointer) {
				// No reader can still be mid-walk through unlinked's next
				// once this runs: break the link so nothing downstream
				// keeps the rest of the chain reachable through it.
				unlinked.next.Store(nil)
			}, nil)
			if t.metrics != nil {
				t.metrics.steals.Add(1)
			}
			return payload, nil
		}
		// Found and processed this round (claimed and/or unlinked); the
		// chain may still reference del_node via a stale adjacent next
		// pointer, so re-walk from the head before declaring success.
	}
}

// Delete removes the node for key, freeing its payload through the
// table's configured free function (if any) once a grace period has
// elapsed. Returns ErrNotExist if key is not present.
func (t *Table) Delete(r *rcu.Reader, key uintptr) error {
	payload, err := t.Steal(r, key)
	if err != nil {
		return err
	}
	if t.freeFn != nil {
		fn := t.freeFn
		rcu.DeferFree(fn, payload)
	}
	return nil
}

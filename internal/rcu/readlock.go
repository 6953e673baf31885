package rcu

// ReadLock enters a read section. Nestable: the second and later calls on
// the same Reader before a matching ReadUnlock only bump the depth counter.
//
// On a non-nested enter, the reader additionally publishes the current
// global phase into ctr via an atomic.Uint64 store, identical across all
// three flavors. For MB and MEMBARRIER this store is itself the barrier:
// no load that follows in program order can be reordered before it
// becomes globally visible. SignalFlavor performs the same store but does
// not lean on that guarantee — it instead relies on the writer's signal
// round-trip to force visibility, which is what lets its broadcastBarrier
// avoid assuming anything about cross-goroutine atomic ordering.
func (r *Reader) ReadLock() {
	if r.gp.flavor == SignalFlavor {
		r.readLockSignal()
		return
	}
	old := r.ctr.Load()
	depth := old & depthMask
	if depth == 0 {
		phase := r.gp.curPhase() << 32
		r.ctr.Store(phase | 1)
		return
	}
	r.ctr.Store(old + 1)
}

// ReadUnlock exits a read section entered with ReadLock. On the matching
// outermost exit it publishes depth zero, marking the reader quiescent.
func (r *Reader) ReadUnlock() {
	if r.gp.flavor == SignalFlavor {
		r.readUnlockSignal()
		return
	}
	old := r.ctr.Load()
	phase := old &^ depthMask
	depth := old & depthMask
	r.ctr.Store(phase | (depth - 1))
}

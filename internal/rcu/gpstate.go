package rcu

import (
	"sync"
	"sync/atomic"
)

// rcuQSActiveAttempts (RCU_QS_ACTIVE_ATTEMPTS) is the number of busy-yield
// spins a writer performs in waitForReaders before falling back to timed
// sleeps of parkInterval between re-polls.
const rcuQSActiveAttempts = 100

// kickReaderLoops is how many park/wake cycles elapse between broadcast
// barriers sent to force readers to flush ctr to memory on platforms whose
// caches are not otherwise guaranteed coherent. The MB/MEMBARRIER flavors
// already pay for coherency on every read-side operation, so this only
// matters for SignalFlavor.
const kickReaderLoops = 4096

// gpState is the process-wide grace-period singleton. There is exactly one
// of these per process; tests that need an isolated instance construct one
// directly with newGPState instead of going through the package-level
// singleton.
type gpState struct {
	// ctr holds the current phase in bit 32. Bits below that are unused
	// (kept as a single atomic word so flipPhase can CAS it without touching
	// any reader's ctr).
	ctr atomic.Uint64

	// mu serializes writers: only the writer holding mu performs a
	// registry scan. The wait-queue enqueue path below is lock-free, so a
	// burst of writers pays for at most one scan.
	mu sync.Mutex

	// registry is the intrusive singly linked list of all registered
	// readers. Modified only while holding mu.
	registry *Reader

	// waiters is the intrusive list of writers parked behind the one
	// currently executing a grace period. enqueue is lock-free (a CAS
	// loop on waiters); the first writer to observe an empty waiters list
	// drains it under mu and becomes responsible for waking everyone once
	// its scan completes.
	waiters atomic.Pointer[writerWait]

	// flavor selects the read-side/broadcast-barrier implementation.
	flavor     Flavor
	flavorImpl flavorImpl

	initOnce sync.Once
	initErr  error

	nextTID atomic.Uint64

	// gpCount counts completed grace periods: incremented once per
	// registry scan (including the trivial empty-registry case), not once
	// per coalesced Synchronize caller.
	gpCount atomic.Uint64
}

// writerWait is one writer's entry in the coalescing wait queue.
type writerWait struct {
	next *writerWait
	done chan struct{}
}

func newGPState(flavor Flavor) *gpState {
	gp := &gpState{flavor: flavor}
	switch flavor {
	case MembarrierFlavor:
		gp.flavorImpl = &membarrierFlavor{}
	case SignalFlavor:
		gp.flavorImpl = newSignalFlavor(gp)
	default:
		gp.flavorImpl = &mbFlavor{}
	}
	return gp
}

// ensureInit runs the flavor's one-time platform setup exactly once. It is
// idempotent and safe to call from every exported entry point, mirroring
// the reference design's lazy global init.
func (gp *gpState) ensureInit() error {
	gp.initOnce.Do(func() {
		gp.initErr = gp.flavorImpl.init()
	})
	return gp.initErr
}

// curPhase returns the current global phase bit (0 or 1).
func (gp *gpState) curPhase() uint64 {
	return (gp.ctr.Load() >> 32) & 1
}

// flipPhase toggles the global phase bit and returns the new ctr value.
func (gp *gpState) flipPhase() uint64 {
	for {
		old := gp.ctr.Load()
		next := old ^ phaseBit
		if gp.ctr.CompareAndSwap(old, next) {
			return next
		}
	}
}

// register links r into the registry under mu.
func (gp *gpState) register(r *Reader) {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	r.next = gp.registry
	gp.registry = r
}

// unregister unlinks r from the registry under mu. r must not be in a read
// section (ReadOngoing() must be false), matching the reference design's
// requirement that readers not be registered/unregistered mid-section.
func (gp *gpState) unregister(r *Reader) {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.registry == r {
		gp.registry = r.next
		r.next = nil
		return
	}
	for p := gp.registry; p != nil; p = p.next {
		if p.next == r {
			p.next = r.next
			r.next = nil
			return
		}
	}
}

// snapshotRegistry returns the current registry as a slice, for use while
// gp.mu is held.
func (gp *gpState) snapshotRegistry() []*Reader {
	var out []*Reader
	for p := gp.registry; p != nil; p = p.next {
		out = append(out, p)
	}
	return out
}

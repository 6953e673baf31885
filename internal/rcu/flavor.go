package rcu

// Flavor selects the implementation of the read-side barriers and the
// writer's broadcast barrier. All three flavors are ABI-compatible in the
// sense that a Reader registered under one flavor behaves identically from
// the hash table's point of view; they differ only in where the ordering
// cost is paid.
type Flavor int

const (
	// MBFlavor relies on the sequentially-consistent atomic ctr update of
	// every ReadLock/ReadUnlock and of the writer's own loads; its
	// broadcast barrier is a no-op. Simplest and safest default; every
	// other flavor is an optimization of this one.
	MBFlavor Flavor = iota

	// MembarrierFlavor uses a kernel-provided expedited process-wide
	// barrier (golang.org/x/sys/unix.Membarrier) as the writer's broadcast
	// barrier, falling back to MBFlavor's plain fence if the platform does
	// not support it.
	MembarrierFlavor

	// SignalFlavor keeps the same atomic ctr as MBFlavor on the read side,
	// but the writer's broadcast barrier does not rely on atomics being
	// globally ordered at all: it signals every registered reader and
	// spins until each has acknowledged, re-signalling on a timeout to
	// defend against a lost delivery.
	SignalFlavor
)

func (f Flavor) String() string {
	switch f {
	case MBFlavor:
		return "mb"
	case MembarrierFlavor:
		return "membarrier"
	case SignalFlavor:
		return "signal"
	default:
		return "unknown"
	}
}

// flavorImpl is the internal contract a Flavor must satisfy. init is called
// exactly once, through gpState.initOnce, during lazy global init.
// broadcastBarrier is the writer's barrier, called from Synchronize at
// least once per grace period with the registry snapshot that must observe
// the barrier, and again from waitForReaders every kickReaderLoops
// iterations with the readers still outstanding.
type flavorImpl interface {
	init() error
	broadcastBarrier(readers []*Reader)
}

// readLockSignal and readUnlockSignal are the SIGNAL flavor's halves of
// ReadLock/ReadUnlock. MB and MEMBARRIER share the same read-side
// implementation (a sequentially-consistent atomic store is already the
// cheapest correct fence Go exposes); SIGNAL uses the identical read-side
// store/load too, paying its cost difference entirely on the writer side
// instead.

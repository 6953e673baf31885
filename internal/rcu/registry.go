package rcu

import "sync"

var (
	defaultGP     *gpState
	defaultGPOnce sync.Once
	defaultFlavor = MBFlavor
)

// SetDefaultFlavor selects the flavor used by the package-level singleton.
// It must be called before the first RegisterThread call; later calls are
// no-ops once the singleton has been constructed, matching the reference
// design's "at most one flavor is linked into a process" rule.
func SetDefaultFlavor(f Flavor) {
	defaultGPOnce.Do(func() {
		defaultFlavor = f
		defaultGP = newGPState(defaultFlavor)
	})
}

func singleton() *gpState {
	defaultGPOnce.Do(func() {
		defaultGP = newGPState(defaultFlavor)
	})
	return defaultGP
}

// ActiveFlavor returns the flavor the package-level singleton was (or will
// be) constructed with.
func ActiveFlavor() Flavor {
	return singleton().flavor
}

// GracePeriods returns the number of grace periods the package-level
// singleton has completed so far (one per registry scan, not one per
// coalesced Synchronize caller).
func GracePeriods() uint64 {
	return singleton().gpCount.Load()
}

// RegisterThread registers the calling goroutine as a reader and returns
// its handle. The handle must not be used from any other goroutine and
// must be released with Unregister once the goroutine is done reading.
//
// RegisterThread performs the engine's lazy global init on first call
// (idempotent; a signal/membarrier installation failure here is the only
// place this package calls fatal, since without it no grace period can
// ever be proven safe).
func RegisterThread() *Reader {
	gp := singleton()
	if err := gp.ensureInit(); err != nil {
		fatal("rcu: flavor init failed", "flavor", gp.flavor.String(), "error", err)
	}
	r := &Reader{gp: gp, tid: gp.nextTID.Add(1)}
	gp.register(r)
	return r
}

// Unregister removes r from the registry. r must not be in a read section.
func (r *Reader) Unregister() {
	r.gp.unregister(r)
}

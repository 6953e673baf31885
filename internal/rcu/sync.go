package rcu

import (
	"runtime"
	"time"
)

// parkInterval is how long a writer sleeps between re-polls once it has
// exhausted its busy-yield attempts. Go exposes no futex a reader could
// wake directly, so the classic "park on the futex, wake on value change"
// back-off becomes a short timed sleep followed by re-polling the
// registry.
const parkInterval = 50 * time.Microsecond

// Synchronize blocks until a grace period elapses for every mutation the
// caller completed before calling it: once it returns, any reader that
// enters a read section afterwards cannot have observed a pre-mutation
// pointer, and any reader that was active before the call has since
// exited at least once.
//
// Concurrent Synchronize callers coalesce: only the writer that finds the
// wait queue empty performs the registry scan; every other caller parks
// until that scan's result covers it too, so a burst of N writers pays for
// one grace period, not N.
func Synchronize() {
	synchronize(singleton())
}

func synchronize(gp *gpState) {
	self := &writerWait{done: make(chan struct{})}
	var old *writerWait
	for {
		old = gp.waiters.Load()
		self.next = old
		if gp.waiters.CompareAndSwap(old, self) {
			break
		}
	}
	if old != nil {
		// Coalesce onto the writer that is about to run (or already
		// running) the scan. The channel close below synchronizes-with
		// this receive, so no further barrier is needed here.
		<-self.done
		return
	}

	gp.mu.Lock()
	chain := gp.waiters.Swap(nil)
	var peers []*writerWait
	for w := chain; w != nil; w = w.next {
		if w != self {
			peers = append(peers, w)
		}
	}

	registry := gp.snapshotRegistry()
	if len(registry) == 0 {
		gp.gpCount.Add(1)
		gp.mu.Unlock()
		wake(peers)
		return
	}

	// Step 4: prior stores (the retirements this grace period is meant to
	// make safe) must be visible before reader states are read.
	gp.flavorImpl.broadcastBarrier(registry)

	// Two passes: the first waits out readers still carrying the phase
	// before the one current when Synchronize started, and sets aside
	// readers active in the current phase; the flip between passes hands
	// freshly entering readers the new phase, so only set-aside readers
	// still carrying the pre-flip phase in the second pass are hazards.
	phase := gp.curPhase()
	_, curSnap := gp.waitForReaders(registry, func(ctr uint64) readerClass {
		return classify(ctr, phase)
	}, false)

	gp.flipPhase()

	newPhase := gp.curPhase()
	gp.waitForReaders(curSnap, func(ctr uint64) readerClass {
		return classify(ctr, newPhase)
	}, true)

	// No registry splice is needed here: unlike the reference design's
	// intrusive list, registry/curSnap above are plain slice snapshots —
	// gp.registry itself was never unlinked from, so every reader is
	// still exactly where RegisterThread left it.
	gp.gpCount.Add(1)
	gp.mu.Unlock()
	wake(peers)
}

func wake(peers []*writerWait) {
	for _, p := range peers {
		close(p.done)
	}
}

// waitForReaders classifies every reader in input against classifyCtr,
// moving INACTIVE readers (and, when bothQualify is true, ACTIVE_CURRENT
// readers too) into qs. Readers that remain unresolved are retried with an
// adaptive back-off: a busy-yield spin for rcuQSActiveAttempts iterations,
// then a timed sleep (parkInterval) between re-polls, periodically
// re-issuing a broadcast barrier to force stragglers to flush their ctr to
// memory.
//
// Callers must hold gp.mu.
func (gp *gpState) waitForReaders(input []*Reader, classifyCtr func(ctr uint64) readerClass, bothQualify bool) (qs, curSnap []*Reader) {
	spins := 0
	for len(input) > 0 {
		var remaining []*Reader
		for _, r := range input {
			switch classifyCtr(r.ctr.Load()) {
			case classInactive:
				qs = append(qs, r)
			case classActiveCurrent:
				if bothQualify {
					qs = append(qs, r)
				} else {
					curSnap = append(curSnap, r)
				}
			default:
				remaining = append(remaining, r)
			}
		}
		input = remaining
		if len(input) == 0 {
			break
		}
		spins++
		if spins <= rcuQSActiveAttempts {
			runtime.Gosched()
			continue
		}
		if spins%kickReaderLoops == 0 {
			gp.flavorImpl.broadcastBarrier(input)
		}
		time.Sleep(parkInterval)
	}
	return qs, curSnap
}

package rcu

import (
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// sigRCU is the signal used to drive the broadcast barrier. Go cannot
// install a handler for an arbitrary real-time signal number or target a
// single OS thread from user code without cgo, so this flavor reserves
// SIGUSR1 instead and broadcasts to the whole process; one housekeeping
// goroutine clearing every waiting reader's needMB flag on each delivery
// stands in for "every reader's own handler fired".
const sigRCU = unix.SIGUSR1

// signalFlavor drives the broadcast barrier with a process-wide signal
// round-trip instead of atomics. Go's memory model does not let
// concurrently accessed state go through genuinely non-atomic loads/stores
// without being undefined behavior under `go test -race`, so the read
// side here still uses the same atomic.Uint64 ctr as mbFlavor (see
// readlock.go) — the distinction this flavor actually buys is on the
// writer side: broadcastBarrier does not rely on Go's atomics being
// globally ordered and instead waits for an explicit per-reader signal
// acknowledgement, re-signalling if any reader hasn't cleared its flag
// by the deadline.
type signalFlavor struct {
	gp *gpState

	// waiting is the snapshot broadcastBarrier is currently waiting on.
	// The housekeeping goroutine started by init reads it on every signal
	// delivery and clears needMB for everything in it; broadcastBarrier
	// itself never clears a flag, so a delivery that never arrives (or
	// arrives while waiting is nil, between calls) genuinely leaves the
	// flag set until a later delivery or re-signal clears it.
	waiting atomic.Pointer[[]*Reader]
}

func newSignalFlavor(gp *gpState) *signalFlavor {
	return &signalFlavor{gp: gp}
}

// init installs a process-wide SIGUSR1 handler so the kill in
// broadcastBarrier is harmless: without signal.Notify, SIGUSR1's default
// disposition terminates the process. Go cannot deliver the signal to one
// chosen goroutine, so this single handler acknowledges on behalf of
// every reader currently named in f.waiting.
func (f *signalFlavor) init() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigRCU)
	go func() {
		for range ch {
			if p := f.waiting.Load(); p != nil {
				for _, r := range *p {
					r.needMB.Store(false)
				}
			}
		}
	}()
	return nil
}

// broadcastBarrier sets needMB on every reader in readers, signals the
// process, and waits for each to clear back to false. A signal delivery
// that the OS or Go's runtime coalesces away (two deliveries arriving
// before the channel is drained collapse into one, per os/signal) simply
// leaves some readers still flagged after the round trip; the deadline
// loop below re-signals until every reader has been acknowledged, so a
// dropped delivery costs latency, never correctness.
func (f *signalFlavor) broadcastBarrier(readers []*Reader) {
	if len(readers) == 0 {
		return
	}
	for _, r := range readers {
		r.needMB.Store(true)
	}
	snapshot := append([]*Reader(nil), readers...)
	f.waiting.Store(&snapshot)
	defer f.waiting.Store(nil)

	_ = unix.Kill(unix.Getpid(), sigRCU)

	deadline := time.Now().Add(time.Millisecond)
	remaining := snapshot
	for {
		next := remaining[:0]
		for _, r := range remaining {
			if r.needMB.Load() {
				next = append(next, r)
			}
		}
		remaining = next
		if len(remaining) == 0 {
			return
		}
		if time.Now().After(deadline) {
			// Re-signal to defend against a lost delivery.
			_ = unix.Kill(unix.Getpid(), sigRCU)
			deadline = time.Now().Add(time.Millisecond)
		}
	}
}

func (r *Reader) readLockSignal() {
	old := r.ctr.Load()
	depth := old & depthMask
	if depth == 0 {
		phase := r.gp.curPhase() << 32
		r.ctr.Store(phase | 1)
		return
	}
	r.ctr.Store(old + 1)
}

func (r *Reader) readUnlockSignal() {
	old := r.ctr.Load()
	phase := old &^ depthMask
	depth := old & depthMask
	r.ctr.Store(phase | (depth - 1))
}

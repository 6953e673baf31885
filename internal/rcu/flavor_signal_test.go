package rcu

import (
	"os"
	"os/signal"
	"sync/atomic"
	"testing"
	"time"
)

// TestSignalFlavorInitRegistersHandler exercises newSignalFlavor's init and
// the broadcastBarrier happy path end to end: a registered reader acks via
// the real housekeeping goroutine init installs, with no simulated drops.
func TestSignalFlavorInitRegistersHandler(t *testing.T) {
	gp := newGPState(SignalFlavor)
	if err := gp.ensureInit(); err != nil {
		t.Fatalf("signal flavor init failed: %v", err)
	}
	f := gp.flavorImpl.(*signalFlavor)

	r := &Reader{gp: gp}
	gp.register(r)

	done := make(chan struct{})
	go func() {
		f.broadcastBarrier([]*Reader{r})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcastBarrier did not complete with a real signal round trip")
	}
}

// TestSignalFlavorBroadcastBarrierSurvivesDroppedAcks exercises the
// deadline/re-signal loop in broadcastBarrier against an acknowledger that
// deliberately drops the first round's delivery for one of two readers,
// mirroring the reference scenario of losing roughly half of SIGRCU
// deliveries. broadcastBarrier must still return once a later round
// acknowledges the straggler, and at least two acknowledgement rounds must
// have been observed by then.
//
// A dummy handler is registered for sigRCU purely so the real
// unix.Kill call inside broadcastBarrier is harmless (SIGUSR1's default
// disposition terminates the process); the actual acknowledgements are
// driven by this test's own goroutine polling f.waiting directly, standing
// in for "some readers' handlers fired, one didn't, yet."
func TestSignalFlavorBroadcastBarrierSurvivesDroppedAcks(t *testing.T) {
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, sigRCU)
	defer signal.Stop(guard)
	go func() {
		for range guard {
		}
	}()

	gp := newGPState(SignalFlavor)
	f := gp.flavorImpl.(*signalFlavor)

	r1 := &Reader{gp: gp}
	r2 := &Reader{gp: gp}
	gp.register(r1)
	gp.register(r2)

	var rounds atomic.Int32
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			p := f.waiting.Load()
			if p == nil {
				time.Sleep(time.Millisecond)
				continue
			}
			n := rounds.Add(1)
			for i, r := range *p {
				if n == 1 && i == 1 {
					// Drop r2's acknowledgement on the first round.
					continue
				}
				r.needMB.Store(false)
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()

	done := make(chan struct{})
	go func() {
		f.broadcastBarrier([]*Reader{r1, r2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcastBarrier never completed despite a later acknowledgement round")
	}
	if rounds.Load() < 2 {
		t.Fatalf("expected at least 2 acknowledgement rounds after a dropped ack, got %d", rounds.Load())
	}
}

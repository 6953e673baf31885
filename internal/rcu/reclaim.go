package rcu

import (
	"sync"
	"unsafe"
)

// retired is one pending reclamation: call fn(ptr) once a grace period has
// elapsed since it was queued.
type retired struct {
	fn  func(unsafe.Pointer)
	ptr unsafe.Pointer
}

// reclaimer is a background worker that drains DeferFree requests in
// batches, paying for exactly one Synchronize per batch rather than one per
// request — the same batching Synchronize itself performs for writers.
//
// Grounded on the retired-node-per-epoch map in
// other_examples/241d4ed6_mjm918-tur__pkg-cowbtree-epoch.go.go, adapted to
// drive off this package's own Synchronize instead of a second, independent
// epoch counter.
type reclaimer struct {
	gp    *gpState
	queue chan retired
}

func newReclaimer(gp *gpState) *reclaimer {
	r := &reclaimer{gp: gp, queue: make(chan retired, 256)}
	go r.run()
	return r
}

func (r *reclaimer) run() {
	for first := range r.queue {
		batch := []retired{first}
	drain:
		for {
			select {
			case item := <-r.queue:
				batch = append(batch, item)
			default:
				break drain
			}
		}
		synchronize(r.gp)
		for _, item := range batch {
			item.fn(item.ptr)
		}
	}
}

func (r *reclaimer) deferFree(fn func(unsafe.Pointer), ptr unsafe.Pointer) {
	r.queue <- retired{fn: fn, ptr: ptr}
}

var (
	defaultReclaimer     *reclaimer
	defaultReclaimerOnce sync.Once
)

func reclaimerSingleton() *reclaimer {
	defaultReclaimerOnce.Do(func() {
		defaultReclaimer = newReclaimer(singleton())
	})
	return defaultReclaimer
}

// DeferFree enqueues ptr for reclamation: fn(ptr) runs once a grace period
// has elapsed since this call, guaranteeing no reader that was active
// before the call (and so may have observed ptr) is still active when fn
// runs.
func DeferFree(fn func(unsafe.Pointer), ptr unsafe.Pointer) {
	reclaimerSingleton().deferFree(fn, ptr)
}

// Package urcu provides the public API for a userspace Read-Copy-Update
// synchronization primitive. See doc.go for detailed documentation.
package urcu

import (
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kvic-z/urcu/internal/rcu"
	"github.com/kvic-z/urcu/internal/rcuhash"
)

// Flavor selects the read-side/broadcast-barrier implementation. See
// doc.go's "Flavors" section.
type Flavor = rcu.Flavor

const (
	FlavorMB         = rcu.MBFlavor
	FlavorMembarrier = rcu.MembarrierFlavor
	FlavorSignal     = rcu.SignalFlavor
)

// SetFlavor selects the flavor used by the package-level grace-period
// engine. It has effect only if called before the first RegisterThread;
// later calls are no-ops, matching the "at most one flavor per process"
// rule a real RCU library enforces.
func SetFlavor(f Flavor) {
	rcu.SetDefaultFlavor(f)
}

func activeFlavor() Flavor {
	return rcu.ActiveFlavor()
}

// Reader is a registered reader's grace-period handle. Obtain one per
// goroutine from RegisterThread; it must not be shared across goroutines.
type Reader = rcu.Reader

// RegisterThread registers the calling goroutine as a reader and returns
// its handle. Release it with Unregister once the goroutine is done
// reading.
func RegisterThread() *Reader {
	return rcu.RegisterThread()
}

// Synchronize blocks until a grace period elapses for every mutation the
// caller completed before calling it.
func Synchronize() {
	rcu.Synchronize()
}

// DeferFree enqueues ptr for reclamation: fn(ptr) runs once a grace period
// has elapsed since this call.
func DeferFree(fn func(unsafe.Pointer), ptr unsafe.Pointer) {
	rcu.DeferFree(fn, ptr)
}

// Table is a fixed-size, separately chained, RCU-protected hash table.
type Table = rcuhash.Table

// TableOption configures a Table at construction time.
type TableOption = rcuhash.Option

// NewTable constructs a Table with nbuckets fixed buckets (must be a
// positive power of two). It returns a nil Table and an error if nbuckets
// is not a positive power of two.
func NewTable(nbuckets int, opts ...TableOption) (*Table, error) {
	return rcuhash.New(nbuckets, opts...)
}

// WithHashFunc overrides the table's default hash function.
func WithHashFunc(fn rcuhash.HashFunc) TableOption {
	return rcuhash.WithHashFunc(fn)
}

// WithFreeFunc registers a payload destructor invoked by Delete and
// DeleteAll.
func WithFreeFunc(fn func(unsafe.Pointer)) TableOption {
	return rcuhash.WithFreeFunc(fn)
}

// WithSeed sets the table's per-instance hash seed.
func WithSeed(seed uint64) TableOption {
	return rcuhash.WithSeed(seed)
}

// WithMetrics enables Add/Steal/DeleteAll/Lookup-miss counters for the
// table and registers them with reg under the given name label.
func WithMetrics(reg prometheus.Registerer, name string) TableOption {
	return rcuhash.WithMetrics(reg, name)
}

// ErrExist is returned by Table.Add when the key is already present.
var ErrExist = rcuhash.ErrExist

// ErrNotExist is returned by Table.Steal/Table.Delete when the key is not
// present.
var ErrNotExist = rcuhash.ErrNotExist

// ErrInvalidSize is returned by NewTable when nbuckets is not a positive
// power of two.
var ErrInvalidSize = rcuhash.ErrInvalidSize

// Package rcu implements a userspace grace-period detection engine.
//
// A grace period is an interval after which every reader that was active at
// its start has finished at least once. Writers retire pointers before
// calling Synchronize and may only free them once Synchronize returns: at
// that point no reader can still observe the pre-retirement version.
//
// Readers call ReadLock/ReadUnlock around the code that dereferences
// RCU-protected pointers. These two calls are nestable, per-reader, and on
// every flavor touch only plain atomic.Uint64 loads/stores on the read
// side — no compare-and-swap, no syscalls. The three flavors differ only
// in how the writer's broadcast barrier is realized: MB relies on the
// atomics alone (its barrier is a no-op), MEMBARRIER asks the kernel for
// an expedited one, and
// SIGNAL emulates one with a process-wide signal round-trip instead of
// relying on either.
//
// Go has no implicit thread-local storage, so a reader is represented by
// an explicit handle returned from RegisterThread. Callers thread that
// handle through their own call sites, the same way a goroutine-scoped
// context value is threaded through call sites elsewhere in this
// repository rather than pulled from ambient state.
package rcu

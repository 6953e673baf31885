// Package urcu provides the public API for a userspace Read-Copy-Update
// synchronization primitive and the lock-free hash table built on it.
//
// # Quick Start
//
//	func main() {
//		r := urcu.RegisterThread()
//		defer r.Unregister()
//
//		tbl, err := urcu.NewTable(256)
//		if err != nil {
//			log.Fatal(err)
//		}
//		tr := tbl.Reader()
//		defer tr.Unregister()
//
//		tbl.Add(tr, 1, unsafe.Pointer(&someValue))
//		v, ok := tbl.Lookup(tr, 1)
//	}
//
// # How It Works
//
// Readers call ReadLock/ReadUnlock (directly, or implicitly through
// Table's Lookup/Add/Steal/Delete/DeleteAll) around code that dereferences
// RCU-protected pointers. These calls are nestable and, under the default
// MB flavor, touch only plain atomic loads and stores — no
// compare-and-swap, no syscalls.
//
// Writers retire pointers with DeferFree; the deferred callback runs once
// Synchronize can prove every reader active when DeferFree was called has
// since exited its read section at least once. A burst of concurrent
// Synchronize callers coalesces onto a single registry scan.
//
// # Flavors
//
// Three interchangeable flavors trade where the ordering cost is paid:
// FlavorMB (default, safest), FlavorMembarrier (uses a kernel expedited
// barrier when available), and FlavorSignal (emulates the broadcast
// barrier with a process-wide signal round-trip; its read side is the same
// atomic loads and stores as FlavorMB and is no cheaper). Select one
// with SetFlavor before the first RegisterThread call.
//
// # Compatibility
//
// FlavorMembarrier requires a Linux kernel supporting
// MEMBARRIER_CMD_PRIVATE_EXPEDITED; it falls back to FlavorMB's plain
// fence automatically when unsupported. FlavorSignal reserves SIGUSR1.
package urcu

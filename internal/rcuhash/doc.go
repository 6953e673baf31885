// Package rcuhash implements a fixed-size, separately chained hash table
// whose lookups are lock-free and whose mutations coordinate through
// internal/rcu instead of a mutex.
//
// Readers never take a lock and never perform a compare-and-swap: Lookup is
// a bucket-head load followed by a chain walk, bracketed by
// rcu.Reader.ReadLock/ReadUnlock. Writers (Add, Steal, Delete, DeleteAll)
// publish new bucket-chain state with compare-and-swap and defer freeing
// unlinked nodes until rcu.DeferFree proves no reader can still be
// traversing them.
//
// The table does not resize: bucket count is fixed at construction, the
// same way the reference design carries separate (currently identical)
// size.add and size.lookup fields as a resize provision it never exercises.
package rcuhash

package rcuhash

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(v int) unsafe.Pointer {
	p := new(int)
	*p = v
	return unsafe.Pointer(p)
}

func asInt(p unsafe.Pointer) int {
	return *(*int)(p)
}

// Scenario 1: single-thread basic ops.
func TestTableSingleThreadBasicOps(t *testing.T) {
	tbl, err := New(16)
	require.NoError(t, err)
	r := tbl.Reader()
	defer r.Unregister()

	_, ok := tbl.Lookup(r, 1)
	assert.False(t, ok, "lookup on empty table must miss")

	require.NoError(t, tbl.Add(r, 1, payload(100)))
	require.ErrorIs(t, tbl.Add(r, 1, payload(999)), ErrExist)

	got, ok := tbl.Lookup(r, 1)
	require.True(t, ok)
	assert.Equal(t, 100, asInt(got))

	popped, err := tbl.Steal(r, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, asInt(popped))

	_, err = tbl.Steal(r, 1)
	assert.ErrorIs(t, err, ErrNotExist)

	_, ok = tbl.Lookup(r, 1)
	assert.False(t, ok)
}

// Scenario 2: a reader looking up a key while a writer concurrently
// removes and re-adds other keys must never observe a torn or freed node.
func TestTableReaderWhileWriterChurns(t *testing.T) {
	tbl, err := New(64)
	require.NoError(t, err)
	r := tbl.Reader()
	defer r.Unregister()
	require.NoError(t, tbl.Add(r, 42, payload(4242)))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		wr := tbl.Reader()
		defer wr.Unregister()
		key := uintptr(1000)
		for {
			select {
			case <-stop:
				return
			default:
			}
			_ = tbl.Add(wr, key, payload(int(key)))
			_, _ = tbl.Steal(wr, key)
			key++
		}
	}()

	for i := 0; i < 10000; i++ {
		got, ok := tbl.Lookup(r, 42)
		if !ok || asInt(got) != 4242 {
			close(stop)
			wg.Wait()
			t.Fatalf("concurrent churn corrupted an unrelated key: ok=%v got=%v", ok, got)
		}
	}
	close(stop)
	wg.Wait()
}

// Scenario 3: adjacent-steal race. Add inserts at the head, so after
// adding key 1 then key 2 the bucket holds [N2 -> N1 -> nil]; goroutine A
// steals N1's key while goroutine B steals N2's key concurrently. Both must succeed with their own payload, and each node
// must be freed exactly once (the stolenFlag prevents a double unlink).
func TestTableAdjacentStealRace(t *testing.T) {
	tbl, err := New(1) // force both keys into the same bucket
	require.NoError(t, err)
	r := tbl.Reader()
	defer r.Unregister()
	require.NoError(t, tbl.Add(r, 1, payload(11)))
	require.NoError(t, tbl.Add(r, 2, payload(22)))

	var wg sync.WaitGroup
	results := make([]struct {
		val int
		err error
	}, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rr := tbl.Reader()
		defer rr.Unregister()
		p, err := tbl.Steal(rr, 1)
		if err == nil {
			results[0].val = asInt(p)
		}
		results[0].err = err
	}()
	go func() {
		defer wg.Done()
		rr := tbl.Reader()
		defer rr.Unregister()
		p, err := tbl.Steal(rr, 2)
		if err == nil {
			results[1].val = asInt(p)
		}
		results[1].err = err
	}()
	wg.Wait()

	require.NoError(t, results[0].err)
	require.NoError(t, results[1].err)
	assert.Equal(t, 11, results[0].val)
	assert.Equal(t, 22, results[1].val)

	_, ok := tbl.Lookup(r, 1)
	assert.False(t, ok)
	_, ok = tbl.Lookup(r, 2)
	assert.False(t, ok)
}

// Concurrent adds: 100 goroutines each Add a unique key concurrently;
// every Add must succeed and every key must subsequently be found. Add
// never calls DeferFree, so this exercises contended bucket-head
// compare-and-swap, not Synchronize's writer coalescing (that is
// TestSynchronizeConcurrentWritersAllReturn in internal/rcu).
func TestTableConcurrentAddsAllSucceed(t *testing.T) {
	tbl, err := New(128)
	require.NoError(t, err)
	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	var failures atomic.Int64
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			r := tbl.Reader()
			defer r.Unregister()
			if err := tbl.Add(r, uintptr(i+1), payload(i)); err != nil {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Zero(t, failures.Load())

	r := tbl.Reader()
	defer r.Unregister()
	for i := 0; i < n; i++ {
		got, ok := tbl.Lookup(r, uintptr(i+1))
		require.True(t, ok, "key %d missing after concurrent Add", i+1)
		assert.Equal(t, i, asInt(got))
	}
}

// Scenario 5: delete-all with concurrent adds. Every node present at
// DeleteAll's entry must be removed and no longer found; the nodes that
// concurrent adders insert meanwhile are not checked.
func TestTableDeleteAllWithConcurrentAdds(t *testing.T) {
	tbl, err := New(128)
	require.NoError(t, err)
	r := tbl.Reader()
	for i := 0; i < 1000; i++ {
		require.NoError(t, tbl.Add(r, uintptr(i+1), payload(i)))
	}

	var wg sync.WaitGroup
	wg.Add(10)
	stop := make(chan struct{})
	for w := 0; w < 10; w++ {
		go func(w int) {
			defer wg.Done()
			wr := tbl.Reader()
			defer wr.Unregister()
			key := uintptr(100000 + w*1000)
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = tbl.Add(wr, key, payload(int(key)))
				key++
			}
		}(w)
	}

	removed := tbl.DeleteAll(r)
	close(stop)
	wg.Wait()

	assert.GreaterOrEqual(t, removed, 1000)
	for i := 0; i < 1000; i++ {
		_, ok := tbl.Lookup(r, uintptr(i+1))
		assert.False(t, ok, "key %d present after DeleteAll swept its bucket", i+1)
	}
	r.Unregister()
}

func TestJenkinsOneAtATimeDistributesNonTrivially(t *testing.T) {
	seen := map[uint64]bool{}
	for i := uintptr(0); i < 64; i++ {
		h := JenkinsOneAtATime(i, 1)
		seen[h] = true
	}
	if len(seen) < 32 {
		t.Fatalf("expected reasonable spread across 64 distinct keys, got %d distinct hashes", len(seen))
	}
}

func TestNewReturnsErrorOnNonPowerOfTwo(t *testing.T) {
	tbl, err := New(3)
	assert.Nil(t, tbl)
	assert.ErrorIs(t, err, ErrInvalidSize)
}


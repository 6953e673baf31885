package cli

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kvic-z/urcu"
)

func stressCmd() *cobra.Command {
	var writers int
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run the writer-coalescing and delete-all-vs-add race scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := writerCoalescing(writers); err != nil {
				return err
			}
			return deleteAllVsAdds(duration)
		},
	}
	cmd.Flags().IntVar(&writers, "writers", 100, "concurrent writers for the coalescing scenario")
	cmd.Flags().DurationVar(&duration, "duration", 200*time.Millisecond, "how long concurrent adds run before delete-all starts")
	return cmd
}

// writerCoalescing spawns n goroutines that each Add one key and then call
// Synchronize concurrently, exercising Synchronize's writer-coalescing
// path.
func writerCoalescing(n int) error {
	tbl, err := urcu.NewTable(256)
	if err != nil {
		return err
	}
	start := time.Now()
	var wg sync.WaitGroup
	var failed atomic.Int64
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			r := tbl.Reader()
			defer r.Unregister()
			v := i
			if err := tbl.Add(r, uintptr(i+1), unsafe.Pointer(&v)); err != nil {
				failed.Add(1)
			}
			urcu.Synchronize()
		}(i)
	}
	wg.Wait()
	log.Info().
		Int("writers", n).
		Dur("elapsed", time.Since(start)).
		Int64("failed", failed.Load()).
		Msg("writer coalescing scenario complete")
	return nil
}

// deleteAllVsAdds starts ten goroutines adding keys continuously, runs one
// DeleteAll after duration while they keep adding, and stops them once it
// returns, mirroring the delete-all vs.
// concurrent-add hash-table scenario.
func deleteAllVsAdds(duration time.Duration) error {
	tbl, err := urcu.NewTable(1024)
	if err != nil {
		return err
	}
	r := tbl.Reader()
	defer r.Unregister()

	for i := 0; i < 1000; i++ {
		v := i
		_ = tbl.Add(r, uintptr(i+1), unsafe.Pointer(&v))
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var added atomic.Int64
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			wr := tbl.Reader()
			defer wr.Unregister()
			key := uintptr(100000 + w*100000)
			for {
				select {
				case <-stop:
					return
				default:
				}
				v := int(key)
				if tbl.Add(wr, key, unsafe.Pointer(&v)) == nil {
					added.Add(1)
				}
				key++
			}
		}(w)
	}

	time.Sleep(duration)
	removed := tbl.DeleteAll(r)
	close(stop)
	wg.Wait()

	log.Info().
		Int("removed", removed).
		Int64("added_during_race", added.Load()).
		Msg("delete-all vs concurrent adds scenario complete")
	return nil
}

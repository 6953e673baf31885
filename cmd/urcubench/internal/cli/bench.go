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

func benchCmd() *cobra.Command {
	var goroutines int
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure Lookup throughput while one background writer adds and steals keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(goroutines, duration)
		},
	}
	cmd.Flags().IntVar(&goroutines, "goroutines", 8, "concurrent reader goroutines")
	cmd.Flags().DurationVar(&duration, "duration", time.Second, "benchmark duration")
	return cmd
}

func runBench(goroutines int, duration time.Duration) error {
	tbl, err := urcu.NewTable(1024)
	if err != nil {
		return err
	}
	seed := tbl.Reader()
	value := 1
	for i := 0; i < 1000; i++ {
		_ = tbl.Add(seed, uintptr(i+1), unsafe.Pointer(&value))
	}
	seed.Unregister()

	stop := make(chan struct{})
	var ops atomic.Int64

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			r := tbl.Reader()
			defer r.Unregister()
			key := uintptr(1)
			for {
				select {
				case <-stop:
					return
				default:
				}
				tbl.Lookup(r, key)
				ops.Add(1)
				key = key%1000 + 1
			}
		}(g)
	}

	// One background writer so Lookup's hot path competes with real
	// grace-period traffic instead of measuring an idle table.
	writerStop := make(chan struct{})
	go func() {
		wr := tbl.Reader()
		defer wr.Unregister()
		key := uintptr(2000)
		for {
			select {
			case <-writerStop:
				return
			default:
			}
			v := int(key)
			_ = tbl.Add(wr, key, unsafe.Pointer(&v))
			_, _ = tbl.Steal(wr, key)
			key++
		}
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(writerStop)

	total := ops.Load()
	log.Info().
		Int("goroutines", goroutines).
		Dur("duration", duration).
		Int64("lookups", total).
		Float64("lookups_per_sec", float64(total)/duration.Seconds()).
		Msg("bench complete")
	return nil
}

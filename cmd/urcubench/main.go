// Package main implements urcubench, a CLI for exercising and
// benchmarking the urcu grace-period engine and RCU hash table.
//
// Usage:
//
//	urcubench demo              # single-thread walkthrough of Table's ops
//	urcubench stress            # writer-coalescing and delete-all-vs-add races
//	urcubench bench             # throughput microbenchmark
//	urcubench version           # show version information
//
// Unlike the detector tool this CLI is grounded on, urcubench does not
// instrument or build other programs: it drives this module's own
// RCU primitives directly, in-process.
package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/kvic-z/urcu/cmd/urcubench/internal/cli"
)

func main() {
	// Sized for containers: GOMAXPROCS defaults to the host's CPU count,
	// which over-parallelizes the grace-period engine's CAS retry loops
	// under a cgroup quota. Errors are logged, not fatal: an unconstrained
	// environment (bare metal, a laptop) simply keeps the runtime default.
	undo, err := maxprocs.Set(maxprocs.Logger(cli.MaxProcsLogger))
	defer undo()
	if err != nil {
		cli.MaxProcsLogger("automaxprocs: %v", err)
	}

	if err := cli.Root().Execute(); err != nil {
		os.Exit(1)
	}
}

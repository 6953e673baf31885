package cli

import (
	"github.com/spf13/cobra"

	"github.com/kvic-z/urcu"
)

// Root builds the urcubench command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "urcubench",
		Short: "Exercise and benchmark the urcu grace-period engine and hash table",
		Long: `urcubench drives this module's RCU primitives directly, in-process:
a single-thread walkthrough of the hash table's operations (demo), the
two concurrency scenarios hardest to get right by inspection alone —
writer coalescing and delete-all racing concurrent adds (stress) — and a
throughput microbenchmark (bench).`,
	}

	var flavor string
	root.PersistentFlags().StringVar(&flavor, "flavor", "mb", "grace-period flavor: mb, membarrier, or signal")
	cobra.OnInitialize(func() {
		switch flavor {
		case "membarrier":
			urcu.SetFlavor(urcu.FlavorMembarrier)
		case "signal":
			urcu.SetFlavor(urcu.FlavorSignal)
		default:
			urcu.SetFlavor(urcu.FlavorMB)
		}
	})

	root.AddCommand(demoCmd(), stressCmd(), benchCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := urcu.GetInfo()
			cmd.Printf("urcubench %s (flavor: %s)\n", info.Version, info.Flavor)
			return nil
		},
	}
}

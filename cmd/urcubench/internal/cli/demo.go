package cli

import (
	"unsafe"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kvic-z/urcu"
)

// demoCmd walks through the single-thread basic-ops scenario: add, lookup,
// duplicate rejection, steal, and a final miss.
func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Single-thread walkthrough of Add/Lookup/Steal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := urcu.NewTable(16)
			if err != nil {
				return err
			}
			r := tbl.Reader()
			defer r.Unregister()

			value := 100
			if err := tbl.Add(r, 1, unsafe.Pointer(&value)); err != nil {
				return err
			}
			log.Info().Uint64("key", 1).Msg("add succeeded")

			if err := tbl.Add(r, 1, unsafe.Pointer(&value)); err != nil {
				log.Info().Err(err).Msg("duplicate add correctly rejected")
			}

			got, ok := tbl.Lookup(r, 1)
			log.Info().Bool("found", ok).Int("value", *(*int)(got)).Msg("lookup")

			popped, err := tbl.Steal(r, 1)
			if err != nil {
				return err
			}
			log.Info().Int("value", *(*int)(popped)).Msg("steal succeeded")

			_, ok = tbl.Lookup(r, 1)
			log.Info().Bool("found", ok).Msg("lookup after steal")
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVocabCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab [facet]",
		Short: "List the selectable values of a facet, All first, with entry counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			names := engine.Catalog().FacetNames()
			if len(args) == 1 {
				names = args
			}
			counts, err := engine.FacetCounts(engine.Reset())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				v, err := engine.Vocabulary(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s:\n", name)
				for _, value := range v.All() {
					fmt.Fprintf(out, "  %s (%d)\n", value, counts[name].Values[value])
				}
			}
			return nil
		},
	}
}

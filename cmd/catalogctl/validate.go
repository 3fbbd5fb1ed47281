package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog file and report values missing from their vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			catalog := engine.Catalog()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d entries, facets %v\n", catalog.Len(), catalog.FacetNames())

			orphans := catalog.Orphans()
			if len(orphans) == 0 {
				fmt.Fprintln(out, "All facet values are selectable.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ENTRY\tFACET\tVALUE")
			for _, o := range orphans {
				fmt.Fprintf(w, "%s\t%s\t%s\n", o.EntryId, o.Facet, o.Value)
			}
			w.Flush()
			if strict {
				return fmt.Errorf("%d facet values are not in their vocabulary", len(orphans))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a facet value is not in its vocabulary")
	return cmd
}

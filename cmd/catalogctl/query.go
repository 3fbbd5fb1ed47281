package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common/jsoncompat"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"github.com/spf13/cobra"
)

func newQueryCmd(opts *options) *cobra.Command {
	var (
		facets   []string
		search   string
		sortKey  string
		asJson   bool
		expanded []string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the grouped projection for a facet selection, search and sort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			state := engine.Reset()
			for _, f := range facets {
				name, value, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("--facet %q: expected <facet>=<value>", f)
				}
				state.Select(strings.TrimSpace(name), strings.TrimSpace(value))
			}
			state.SearchText = search
			key, err := types.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			state.SortKey = key
			state.ExpandedGroups = expanded

			projection, err := engine.Query(state)
			if err != nil {
				return err
			}
			if asJson {
				return jsoncompat.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"groups": projection,
					"total":  projection.Len(),
					"state":  state,
				})
			}
			printProjection(cmd.OutOrStdout(), projection)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&facets, "facet", "f", nil, "Facet selection as <facet>=<value>, repeatable")
	cmd.Flags().StringVar(&search, "q", "", "Case-insensitive substring search")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", string(types.DefaultSortKey), "Sort key: "+sortKeyList())
	cmd.Flags().StringSliceVar(&expanded, "expanded", nil, "Groups to mark as expanded")
	cmd.Flags().BoolVar(&asJson, "json", false, "Print the projection as JSON")
	return cmd
}

func sortKeyList() string {
	keys := types.SortKeys()
	ret := make([]string, len(keys))
	for i, k := range keys {
		ret[i] = string(k)
	}
	return strings.Join(ret, ", ")
}

func printProjection(out io.Writer, projection types.Projection) {
	if len(projection) == 0 {
		fmt.Fprintln(out, "No matching entries.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, g := range projection {
		fmt.Fprintf(w, "%s (%d)\n", g.Key, len(g.Items))
		for _, e := range g.Items {
			fmt.Fprintf(w, "  %s\t%s\t%.0f\t%d\n", e.Id, e.DisplayName, e.Score, e.Year)
		}
	}
	w.Flush()
	fmt.Fprintf(out, "%d entries\n", projection.Len())
}

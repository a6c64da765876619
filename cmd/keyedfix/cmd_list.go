package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/odvcencio/keyedfix/pkg/fixture"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var malformed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the fixture catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range fixture.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Description)
			}
			if malformed {
				for _, m := range fixture.MalformedCatalog() {
					fmt.Fprintf(tw, "%s\t%s (xml only)\n", m.Name, m.Description)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&malformed, "malformed", false, "include known-bad fixtures")
	return cmd
}

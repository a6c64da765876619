package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/odvcencio/keyedfix/pkg/archive"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var classes []string
	cmd := &cobra.Command{
		Use:   "dump <archive>",
		Short: "Decode a keyed archive and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}
			var opts []archive.Option
			if len(classes) > 0 {
				opts = append(opts, archive.WithAllowedClasses(classes...))
			}
			values, err := archive.Unarchive(data, opts...)
			if err != nil {
				return fmt.Errorf("dump %s: %w", args[0], err)
			}
			b, err := json.MarshalIndent(archive.PlainValues(values), "", "  ")
			if err != nil {
				return fmt.Errorf("dump %s: marshal json: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&classes, "allow-class", nil, "decode only these classes (repeatable)")
	return cmd
}

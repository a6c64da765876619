package main

import (
	"fmt"

	"github.com/odvcencio/keyedfix/pkg/fixture"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBundleCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Pack the fixture directory into a zstd-compressed tar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if out == "" {
				out = cfg.Bundle
			}
			names, err := fixture.WriteBundle(cfg.Dir, out)
			if err != nil {
				return err
			}
			logger.Debug("wrote bundle", zap.String("path", out), zap.Strings("files", names))
			if len(names) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "nothing to bundle in %s\n", cfg.Dir)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bundled %d file(s) into %s\n", len(names), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "bundle path (overrides config)")
	return cmd
}

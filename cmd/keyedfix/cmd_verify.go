package main

import (
	"fmt"

	"github.com/odvcencio/keyedfix/pkg/fixture"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newVerifyCmd(g *globalFlags) *cobra.Command {
	var malformed bool
	cmd := &cobra.Command{
		Use:   "verify [fixture...]",
		Short: "Decode every fixture archive and compare it with its graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			names := cfg.Fixtures
			if len(args) > 0 {
				names = args
			}
			problems, err := fixture.Verify(cfg.Dir, fixture.VerifyOptions{Names: names, Malformed: malformed})
			if err != nil {
				return err
			}

			logger.Debug("verified fixtures", zap.String("dir", cfg.Dir), zap.Int("problems", len(problems)))
			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(out, "ok %s\n", cfg.Dir)
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			return fmt.Errorf("verify: %d problem(s) in %s", len(problems), cfg.Dir)
		},
	}
	cmd.Flags().BoolVar(&malformed, "malformed", false, "also check that known-bad fixtures are rejected")
	return cmd
}

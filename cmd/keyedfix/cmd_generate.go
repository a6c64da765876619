package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/keyedfix/pkg/fixture"
	"github.com/spf13/cobra"
)

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var (
		malformed bool
		manifest  bool
		strict    bool
		mkdir     bool
	)
	cmd := &cobra.Command{
		Use:   "generate [fixture...]",
		Short: "Write <fixture>.bin and <fixture>.xml for each fixture",
		Long: "Write the binary and XML archive of each selected fixture (all by default).\n" +
			"A fixture that cannot be written is logged and skipped.",
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
			if cmd.Flags().Changed("malformed") {
				cfg.Malformed = malformed
			}
			if cmd.Flags().Changed("manifest") {
				cfg.Manifest = manifest
			}

			if mkdir {
				if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
					return fmt.Errorf("create directory: %w", err)
				}
			}

			report, err := fixture.Generate(cmd.Context(), fixture.Options{
				Dir:       cfg.Dir,
				Names:     names,
				Malformed: cfg.Malformed,
				Manifest:  cfg.Manifest,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, pair := range report.Written {
				for _, f := range pair.Files {
					fmt.Fprintf(out, "wrote %s (%d bytes)\n", f.Path, f.Size)
				}
			}
			if len(report.Malformed) > 0 {
				fmt.Fprintf(out, "wrote %d malformed fixture(s) in %s\n", len(report.Malformed), cfg.Dir)
			}
			if cfg.Manifest && report.Failed["manifest"] == nil {
				fmt.Fprintf(out, "wrote %s\n", filepath.Join(cfg.Dir, fixture.ManifestName))
			}
			if n := len(report.Failed); n > 0 {
				fmt.Fprintf(out, "%d fixture(s) failed: %v\n", n, report.FailedNames())
				if strict {
					return fmt.Errorf("generate: %d fixture(s) failed", n)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&malformed, "malformed", false, "also write the known-bad fixtures (overrides config)")
	cmd.Flags().BoolVar(&manifest, "manifest", true, "write manifest.toml (overrides config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any fixture fails")
	cmd.Flags().BoolVar(&mkdir, "mkdir", true, "create the fixture directory if missing")
	return cmd
}

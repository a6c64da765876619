package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/keyedfix/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every subcommand. Empty
// values defer to the config file.
type globalFlags struct {
	configPath string
	dir        string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "keyedfix",
		Short:         "Generate keyed-archive test fixtures in binary and XML form",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultPath, "config file (missing file means defaults)")
	root.PersistentFlags().StringVar(&g.dir, "dir", "", "fixture directory (overrides config)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newGenerateCmd(g))
	root.AddCommand(newVerifyCmd(g))
	root.AddCommand(newListCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newBundleCmd(g))
	return root
}

// load reads the config file and applies flag overrides.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.dir != "" {
		cfg.Dir = g.dir
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cmd.ErrOrStderr(), level), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "keyedfix 0.1.0-dev")
		},
	}
}

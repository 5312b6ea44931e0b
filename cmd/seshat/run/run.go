package run

import (
	"fmt"
	"os"

	"github.com/flarebyte/seshat-stubs/internal/config"
	"github.com/flarebyte/seshat-stubs/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
)

// Cmd represents the `seshat run` command.
var Cmd = &cobra.Command{
	Use:           "run",
	Short:         "Generate stubs for every catalog module present on the runtime",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return fmt.Errorf("missing required flag: --config")
		}
		cfg, err := config.Parse(cfgPath)
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.UI.Verbose)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		return runStubber(cfg, log, os.Stdout)
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
}

package catalogcmd

import (
	"os"

	"github.com/flarebyte/seshat-stubs/internal/catalog"
	"github.com/flarebyte/seshat-stubs/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	catalogPath string
)

// Cmd represents the `seshat catalog` command: print the effective module
// catalog as canonical YAML, after defaults, file overlay and extras.
var Cmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Print the effective module catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Default()
		path := catalogPath
		var extras []string
		if cfgPath != "" {
			cfg, err := config.Parse(cfgPath)
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Catalog.Path
			}
			extras = cfg.Catalog.ExtraModules
		}
		if path != "" {
			var err error
			cat, err = catalog.Load(path)
			if err != nil {
				return err
			}
		}
		b, err := catalog.Marshal(cat.WithModules(extras...))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a catalog file (.yaml)")
}

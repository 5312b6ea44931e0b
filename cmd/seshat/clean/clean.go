package clean

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/seshat-stubs/internal/config"
	"github.com/flarebyte/seshat-stubs/internal/stubber"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
)

// Cmd represents the `seshat clean` command.
var Cmd = &cobra.Command{
	Use:           "clean",
	Short:         "Remove generated stubs and the report from the stub root",
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
		root := cfg.Output.StubRoot
		if root == "" {
			root = stubber.DefaultRoot(cfg.Device.Uname())
		}
		n := cleanTree(root, cfg.Output.ReportFile)
		fmt.Fprintf(os.Stdout, "{\"ok\":true,\"cleaned\":%d}\n", n)
		return nil
	},
}

// cleanTree removes generated files under root, best effort, and returns
// how many were deleted. Only stub files and the report are touched.
func cleanTree(root, reportFile string) int {
	n := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".py") || d.Name() == reportFile {
			if os.Remove(path) == nil {
				n++
			}
		}
		return nil
	})
	return n
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
}

package diagnose

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flarebyte/seshat-stubs/internal/buildinfo"
	"github.com/flarebyte/seshat-stubs/internal/catalog"
	"github.com/flarebyte/seshat-stubs/internal/config"
	"github.com/flarebyte/seshat-stubs/internal/firmware"
	"github.com/flarebyte/seshat-stubs/internal/firmware/gofw"
	"github.com/flarebyte/seshat-stubs/internal/firmware/luafw"
	"github.com/flarebyte/seshat-stubs/internal/stubber"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
)

// Cmd implements `seshat diagnose`: bring up the configured runtime without
// stubbing anything and report what a run would see.
var Cmd = &cobra.Command{
	Use:           "diagnose",
	Short:         "Report runtime identity, free heap and catalog shape",
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
		rt, closeRuntime, err := openRuntime(cfg)
		if err != nil {
			return err
		}
		defer closeRuntime()

		cat := catalog.Default()
		if cfg.Catalog.Path != "" {
			if cat, err = catalog.Load(cfg.Catalog.Path); err != nil {
				return err
			}
		}
		cat = cat.WithModules(cfg.Catalog.ExtraModules...)

		root := cfg.Output.StubRoot
		if root == "" {
			root = stubber.DefaultRoot(rt.Uname())
		}
		u := rt.Uname()
		out := map[string]any{
			"stubber":    buildinfo.Short(),
			"runtime":    cfg.Runtime.Kind,
			"sysname":    u.Sysname,
			"release":    u.Release,
			"version":    u.Version,
			"machine":    u.Machine,
			"firmware":   firmware.FirmwareID(u),
			"firmwareId": firmware.PathSafeID(u),
			"memFree":    rt.MemFree(),
			"stubRoot":   root,
			"catalog": map[string]int{
				"modules":     len(cat.Modules),
				"problematic": len(cat.Problematic),
				"excluded":    len(cat.Excluded),
				"keepLoaded":  len(cat.KeepLoaded),
			},
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func openRuntime(cfg config.Config) (firmware.Runtime, func(), error) {
	u := cfg.Device.Uname()
	switch cfg.Runtime.Kind {
	case "lua":
		rt, err := luafw.New(cfg.Runtime.Image, u, cfg.Runtime.HeapBudgetBytes)
		if err != nil {
			return nil, nil, err
		}
		return rt, rt.Close, nil
	case "go":
		return gofw.New(u, cfg.Runtime.HeapBudgetBytes), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown runtime kind: %s", cfg.Runtime.Kind)
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
}

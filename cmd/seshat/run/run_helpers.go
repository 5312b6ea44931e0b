package run

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/flarebyte/seshat-stubs/internal/archive"
	"github.com/flarebyte/seshat-stubs/internal/buildinfo"
	"github.com/flarebyte/seshat-stubs/internal/catalog"
	"github.com/flarebyte/seshat-stubs/internal/config"
	"github.com/flarebyte/seshat-stubs/internal/firmware"
	"github.com/flarebyte/seshat-stubs/internal/firmware/gofw"
	"github.com/flarebyte/seshat-stubs/internal/firmware/luafw"
	"github.com/flarebyte/seshat-stubs/internal/stubber"
)

// buildRuntime constructs the configured runtime and its teardown.
func buildRuntime(cfg config.Config) (firmware.Runtime, func(), error) {
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

// loadCatalog resolves defaults, an optional catalog file and inline extras.
func loadCatalog(cfg config.Config) (catalog.Catalog, error) {
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		var err error
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return catalog.Catalog{}, err
		}
	}
	return cat.WithModules(cfg.Catalog.ExtraModules...), nil
}

func runStubber(cfg config.Config, log *zap.Logger, out io.Writer) error {
	rt, closeRuntime, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer closeRuntime()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	s := stubber.New(rt, log, stubber.Options{
		Root:            cfg.Output.StubRoot,
		Version:         buildinfo.Short(),
		Problematic:     cat.Problematic,
		Excluded:        cat.Excluded,
		KeepLoaded:      cat.KeepLoaded,
		KeepInternal:    cat.KeepInternal,
		NestedThreshold: cfg.Governor.NestedThresholdBytes,
	})
	// Stub-root creation failure aborts the run up front; everything after
	// this point is best effort.
	if err := stubber.EnsureFolder(s.Root()); err != nil {
		return fmt.Errorf("cannot create stub root: %w", err)
	}

	count := s.CreateAllStubs(cat.Ordered())

	// The report is written even when individual modules failed.
	reportPath := filepath.Join(s.Root(), cfg.Output.ReportFile)
	if err := s.Report().WriteFile(reportPath); err != nil {
		log.Error("failed to write report", zap.Error(err))
	}

	commit := ""
	if cfg.Archive.Enabled {
		msg := cfg.Archive.Message
		if msg == "" {
			msg = "stubs for " + firmware.FirmwareID(rt.Uname())
		}
		commit, err = archive.Snapshot(s.Root(), msg)
		if err != nil {
			log.Error("failed to archive stubs", zap.Error(err))
			commit = ""
		}
	}

	log.Info("run complete",
		zap.Int("modules", count),
		zap.String("machine", rt.Uname().Machine),
		zap.String("release", rt.Uname().Release),
		zap.String("path", s.Root()))
	return writeSummary(out, count, s.Root(), commit)
}

// writeSummary prints the single JSON success line.
func writeSummary(w io.Writer, count int, root, commit string) error {
	sum := map[string]any{"ok": true, "modules": count, "path": root}
	if commit != "" {
		sum["commit"] = commit
	}
	b, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

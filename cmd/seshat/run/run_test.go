package run

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/flarebyte/seshat-stubs/internal/config"
	"github.com/flarebyte/seshat-stubs/internal/testutil"
)

func writeRunFixture(t *testing.T) (cfgPath, stubRoot string) {
	t.Helper()
	base := t.TempDir()
	image := filepath.Join(base, "image")
	stubRoot = filepath.Join(base, "stubs")
	if err := testutil.WriteTree(image, map[string]string{
		"sample_mod.lua": `
local M = {}
M.NAME = 'x'
function M.f() end
M.Inner = { n = 1 }
return M
`,
		"umqtt/simple.lua": `
local M = {}
function M.connect() end
return M
`,
	}); err != nil {
		t.Fatalf("write image: %v", err)
	}

	catPath := filepath.Join(base, "catalog.yaml")
	cat := "modules:\n  - sample_mod\n  - umqtt/simple\n  - does_not_exist\n"
	if err := os.WriteFile(catPath, []byte(cat), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cfgPath = filepath.Join(base, "seshat.cue")
	cfg := fmt.Sprintf(`
configVersion: "1.0.0"
runtime: {
	kind:  "lua"
	image: %q
}
output: {
	stubRoot:   %q
	reportFile: "modules.json"
}
catalog: path: %q
archive: enabled: true
`, image, stubRoot, catPath)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, stubRoot
}

func TestRunStubber_EndToEnd(t *testing.T) {
	cfgPath, stubRoot := writeRunFixture(t)
	cfg, err := config.Parse(cfgPath)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	var out bytes.Buffer
	if err := runStubber(cfg, zap.NewNop(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Both present modules produce stub files; the absent one produces none.
	sample, err := os.ReadFile(filepath.Join(stubRoot, "sample_mod.py"))
	if err != nil {
		t.Fatalf("sample_mod stub missing: %v", err)
	}
	wantBody := "\nclass Inner:\n    ''\n    n = 1\nNAME = 'x'\ndef f():\n    pass\n\n"
	if !strings.HasSuffix(string(sample), wantBody) {
		t.Fatalf("unexpected sample_mod stub body\nwant suffix: %q\ngot: %q", wantBody, sample)
	}
	if !strings.HasPrefix(string(sample), "\"\"\"\nModule: 'sample_mod' on esp32 v1.10\n\"\"\"\n") {
		t.Fatalf("unexpected stub header: %q", sample)
	}
	if _, err := os.Stat(filepath.Join(stubRoot, "umqtt", "simple.py")); err != nil {
		t.Fatalf("nested stub missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(stubRoot, "does_not_exist.py")); !os.IsNotExist(err) {
		t.Fatalf("absent module must not produce a stub")
	}

	// The report records exactly the two stubbed modules.
	var report struct {
		Modules []struct {
			Module string `json:"module"`
		} `json:"modules"`
	}
	b, err := os.ReadFile(filepath.Join(stubRoot, "modules.json"))
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(report.Modules) != 2 {
		t.Fatalf("report modules = %d, want 2", len(report.Modules))
	}

	// Archiving left a repository with one commit over the stub tree.
	if _, err := git.PlainOpen(stubRoot); err != nil {
		t.Fatalf("stub root should be a git repository: %v", err)
	}

	// The summary line reports success and the module count.
	var sum map[string]any
	if err := json.Unmarshal(out.Bytes(), &sum); err != nil {
		t.Fatalf("summary is not valid JSON: %v\n%s", err, out.String())
	}
	if sum["ok"] != true || sum["modules"] != float64(2) {
		t.Fatalf("unexpected summary: %v", sum)
	}
	if sum["commit"] == nil || sum["commit"] == "" {
		t.Fatalf("summary should carry the archive commit")
	}
}

func TestRunStubber_UnknownRuntime(t *testing.T) {
	cfg := config.Config{Runtime: config.Runtime{Kind: "forth"}}
	var out bytes.Buffer
	if err := runStubber(cfg, zap.NewNop(), &out); err == nil {
		t.Fatalf("expected runtime construction to fail")
	}
}

func TestLoadCatalog_FileAndExtras(t *testing.T) {
	base := t.TempDir()
	catPath := filepath.Join(base, "catalog.yaml")
	if err := os.WriteFile(catPath, []byte("modules:\n  - os\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg := config.Config{Catalog: config.CatalogRef{Path: catPath, ExtraModules: []string{"aioble"}}}
	cat, err := loadCatalog(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Modules) != 2 || cat.Modules[0] != "aioble" || cat.Modules[1] != "os" {
		t.Fatalf("unexpected modules: %v", cat.Modules)
	}
}

package stubber

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReport_WriteFileShape(t *testing.T) {
	r := NewReport(testUname, "1.2.0")
	r.Add("json", "/stubs/json.py")
	r.Add("umqtt.simple", "/stubs/umqtt/simple.py")

	path := filepath.Join(t.TempDir(), "modules.json")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("write report: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var doc struct {
		Firmware FirmwareInfo `json:"firmware"`
		Stubber  struct {
			Version string `json:"version"`
		} `json:"stubber"`
		Modules []ModuleEntry `json:"modules"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, b)
	}
	if doc.Firmware.Sysname != "esp32" || doc.Firmware.Firmware != "esp32 v1.10" {
		t.Fatalf("unexpected firmware block: %+v", doc.Firmware)
	}
	if doc.Stubber.Version != "1.2.0" {
		t.Fatalf("unexpected stubber version: %q", doc.Stubber.Version)
	}
	if len(doc.Modules) != 2 || doc.Modules[0].Module != "json" || doc.Modules[1].Module != "umqtt.simple" {
		t.Fatalf("unexpected modules: %+v", doc.Modules)
	}
	// Node-by-node writer keeps the expected top-level key order.
	if !strings.HasPrefix(string(b), "{\"firmware\":") {
		t.Fatalf("unexpected document start: %q", string(b)[:20])
	}
}

func TestReport_EmptyRun(t *testing.T) {
	r := NewReport(testUname, "1.2.0")
	path := filepath.Join(t.TempDir(), "modules.json")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("write report: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.HasSuffix(strings.TrimSpace(string(b)), "\"modules\":[]}") {
		t.Fatalf("empty run should produce an empty modules array: %s", b)
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// Config is the validated tool configuration.
type Config struct {
	ConfigVersion string
	Device        Device
	Runtime       Runtime
	Output        Output
	Governor      Governor
	Catalog       CatalogRef
	Archive       Archive
	UI            UI
}

// Device holds the firmware identity fields the runtime reports as uname.
type Device struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

// Uname converts the device section into the runtime identity tuple.
func (d Device) Uname() firmware.Uname {
	return firmware.Uname{
		Sysname:  d.Sysname,
		Nodename: d.Nodename,
		Release:  d.Release,
		Version:  d.Version,
		Machine:  d.Machine,
	}
}

// Runtime selects and sizes the embedded runtime under introspection.
type Runtime struct {
	// Kind is "lua" (firmware image of Lua modules) or "go" (yaegi stdlib).
	Kind string
	// Image is the directory of module sources for the lua runtime.
	Image string
	// HeapBudgetBytes bounds the emulated device heap.
	HeapBudgetBytes int
}

// Output controls where stubs and the report land.
type Output struct {
	StubRoot   string
	ReportFile string
}

// Governor holds resource-gating knobs.
type Governor struct {
	NestedThresholdBytes int
}

// CatalogRef points at an optional catalog file plus inline extras.
type CatalogRef struct {
	Path         string
	ExtraModules []string
}

// Archive controls the post-run git snapshot of the stub tree.
type Archive struct {
	Enabled bool
	Message string
}

// UI holds operator-facing switches.
type UI struct {
	Verbose bool
}

// Parse loads a CUE config file and extracts the validated configuration.
// Required fields: configVersion (string), runtime.kind (string).
func Parse(path string) (Config, error) {
	if filepath.Ext(path) != ".cue" {
		return Config{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %v", err)
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return Config{}, err
	}

	var c Config
	_ = decodeString(v, "configVersion", &c.ConfigVersion)
	c.Device = parseDeviceSection(v)
	c.Runtime, err = parseRuntimeSection(v)
	if err != nil {
		return Config{}, err
	}
	c.Output = parseOutputSection(v)
	c.Governor = parseGovernorSection(v)
	c.Catalog = parseCatalogSection(v)
	c.Archive = parseArchiveSection(v)
	c.UI = parseUISection(v)
	return c, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func decodeString(v cue.Value, path string, out *string) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.StringKind {
		return false
	}
	return f.Decode(out) == nil
}

func decodeInt(v cue.Value, path string, out *int) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.IntKind {
		return false
	}
	return f.Decode(out) == nil
}

func decodeBool(v cue.Value, path string, out *bool) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.BoolKind {
		return false
	}
	return f.Decode(out) == nil
}

func decodeStringList(v cue.Value, path string, out *[]string) bool {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return false
	}
	var vals []string
	if err := f.Decode(&vals); err != nil {
		return false
	}
	*out = vals
	return true
}

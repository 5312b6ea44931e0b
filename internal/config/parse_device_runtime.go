package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

// defaultHeapBudget sizes the emulated device heap when the config is silent.
const defaultHeapBudget = 128 * 1024

func parseDeviceSection(v cue.Value) Device {
	// Defaults describe a generic ESP32 build so a minimal config still
	// produces well-formed headers.
	d := Device{
		Sysname:  "esp32",
		Nodename: "esp32",
		Release:  "1.10.0",
		Version:  "v1.10",
		Machine:  "ESP32 module with ESP32",
	}
	dv := v.LookupPath(cue.ParsePath("device"))
	if !dv.Exists() {
		return d
	}
	_ = decodeString(dv, "sysname", &d.Sysname)
	_ = decodeString(dv, "nodename", &d.Nodename)
	_ = decodeString(dv, "release", &d.Release)
	_ = decodeString(dv, "version", &d.Version)
	_ = decodeString(dv, "machine", &d.Machine)
	return d
}

func parseRuntimeSection(v cue.Value) (Runtime, error) {
	r := Runtime{Kind: "lua", HeapBudgetBytes: defaultHeapBudget}
	rv := v.LookupPath(cue.ParsePath("runtime"))
	if rv.Exists() {
		_ = decodeString(rv, "kind", &r.Kind)
		_ = decodeString(rv, "image", &r.Image)
		_ = decodeInt(rv, "heapBudgetBytes", &r.HeapBudgetBytes)
	}
	switch r.Kind {
	case "lua", "go":
	default:
		return Runtime{}, fmt.Errorf("unknown runtime kind: %s", r.Kind)
	}
	if r.Kind == "lua" && r.Image == "" {
		return Runtime{}, fmt.Errorf("runtime.image is required for the lua runtime")
	}
	return r, nil
}

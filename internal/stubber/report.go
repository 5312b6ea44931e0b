package stubber

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// FirmwareInfo is the identity block of the run report.
type FirmwareInfo struct {
	Sysname  string `json:"sysname"`
	Nodename string `json:"nodename"`
	Release  string `json:"release"`
	Version  string `json:"version"`
	Machine  string `json:"machine"`
	Firmware string `json:"firmware"`
}

// ModuleEntry records one successfully stubbed module.
type ModuleEntry struct {
	Module string `json:"module"`
	File   string `json:"file"`
}

// Report accumulates the run record: firmware identity, tool version and one
// entry per stubbed module, in append order.
type Report struct {
	Firmware FirmwareInfo
	Version  string

	modules []ModuleEntry
}

// NewReport captures the firmware identity up front.
func NewReport(u firmware.Uname, version string) *Report {
	return &Report{
		Firmware: FirmwareInfo{
			Sysname:  u.Sysname,
			Nodename: u.Nodename,
			Release:  u.Release,
			Version:  u.Version,
			Machine:  u.Machine,
			Firmware: firmware.FirmwareID(u),
		},
		Version: version,
	}
}

// Add appends one module record.
func (r *Report) Add(module, file string) {
	r.modules = append(r.modules, ModuleEntry{Module: module, File: file})
}

// Modules returns the recorded entries in append order.
func (r *Report) Modules() []ModuleEntry { return r.modules }

// Len counts successfully stubbed modules.
func (r *Report) Len() int { return len(r.modules) }

// WriteFile persists the report as a single JSON document, marshalling node
// by node so the full structure is never built in memory at once.
func (r *Report) WriteFile(path string) error {
	if err := EnsureFolder(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	fw, err := json.Marshal(r.Firmware)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "{\"firmware\":%s,\"stubber\":{\"version\":%q},\"modules\":[", fw, r.Version); err != nil {
		return err
	}
	for i, m := range r.modules {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := f.Write([]byte{','}); err != nil {
				return err
			}
		}
		if _, err := f.Write(b); err != nil {
			return err
		}
	}
	_, err = f.WriteString("]}")
	return err
}

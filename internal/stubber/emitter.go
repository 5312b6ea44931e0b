package stubber

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// Emitter owns stub file creation under one output root.
type Emitter struct {
	Root    string
	Version string
}

// ModulePath maps a catalog name to its output file. Dots and slashes both
// denote nesting and map to directories in the output tree.
func (e *Emitter) ModulePath(name string) string {
	rel := strings.ReplaceAll(name, ".", "/")
	return filepath.Join(e.Root, filepath.FromSlash(rel)+".py")
}

// ModuleStub is one open stub output stream.
type ModuleStub struct {
	Path string
	f    *os.File
}

// Begin creates the stub file for a module and writes the fixed header:
// module name, firmware identity, the device's uname tuple and the tool
// version.
func (e *Emitter) Begin(name string, u firmware.Uname) (*ModuleStub, error) {
	path := e.ModulePath(name)
	if err := EnsureFolder(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("\"\"\"\nModule: '%s' on %s\n\"\"\"\n# MCU: %s\n# Stubber: %s\n",
		strings.ReplaceAll(name, "/", "."), firmware.FirmwareID(u), u, e.Version)
	if _, err := f.WriteString(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &ModuleStub{Path: path, f: f}, nil
}

func (s *ModuleStub) Write(p []byte) (int, error) { return s.f.Write(p) }

// Close flushes and releases the stream. Idempotent, safe on every exit
// path; a failure mid-walk may leave the contents incomplete but never a
// dangling handle.
func (s *ModuleStub) Close() error {
	if s == nil || s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// EnsureFolder creates dir and any missing parents; already-exists is
// success.
func EnsureFolder(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// DefaultRoot derives the stub destination when the config gives none:
// <device root>/stubs/<path-safe firmware id>.
func DefaultRoot(u firmware.Uname) string {
	return filepath.Join(deviceRoot(), "stubs", firmware.PathSafeID(u))
}

// deviceRoot prefers the flash mount when it exists.
func deviceRoot() string {
	if st, err := os.Stat("/flash"); err == nil && st.IsDir() {
		return "/flash"
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "/"
}

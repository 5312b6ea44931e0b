package firmware

import (
	"errors"
	"fmt"
)

// Package firmware defines the seam between the stub generator and the
// embedded runtime it introspects. Everything the walker and the lifecycle
// manager know about the runtime goes through these interfaces, so the same
// core drives the Lua device runtime, the yaegi host runtime and the test
// fake.

// Value is one live attribute value observed on the runtime.
type Value interface {
	// TypeTag returns the runtime's own human-readable type tag, e.g.
	// "function", "str", "int". The classifier keys on this string only.
	TypeTag() string
	// Repr returns the runtime's own textual representation of the value.
	// It is written verbatim into stubs for literal kinds.
	Repr() string
	// Object returns a member view of the value when it has one.
	Object() (Object, bool)
}

// Object is a live object whose members can be enumerated.
type Object interface {
	// AttrNames enumerates accessible member names. Order is whatever the
	// runtime yields; callers must not rely on it.
	AttrNames() []string
	// Attr resolves one member by name. A failing read returns an error
	// and must leave the object usable for the next sibling.
	Attr(name string) (Value, error)
}

// Uname describes the firmware build the runtime reports.
type Uname struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

// String renders the uname tuple the way the device prints it.
func (u Uname) String() string {
	return fmt.Sprintf("(sysname='%s', nodename='%s', release='%s', version='%s', machine='%s')",
		u.Sysname, u.Nodename, u.Release, u.Version, u.Machine)
}

// Runtime is the embedded interpreter under introspection.
type Runtime interface {
	// Uname reports the firmware identity fields.
	Uname() Uname
	// Import loads a module by dotted name and returns its live object.
	// Absent modules return ErrNotPresent; that is the normal way the tool
	// discovers which catalog entries exist on this build.
	Import(name string) (Object, error)
	// Evict removes a module from the runtime's module cache.
	Evict(name string)
	// Reclaim asks the runtime to collect garbage, best effort.
	Reclaim()
	// MemFree returns the freshest free-heap reading, in bytes.
	MemFree() int
}

// ErrNotPresent reports a module that does not exist on this firmware build.
type ErrNotPresent struct{ Name string }

func (e ErrNotPresent) Error() string { return "module not present: " + e.Name }

// IsNotPresent reports whether err marks an absent module.
func IsNotPresent(err error) bool {
	var e ErrNotPresent
	return errors.As(err, &e)
}

// Package fakefw is a scriptable in-memory runtime used by tests. Member
// enumeration order is Go map order, which is deliberately unstable: the
// walker's lexical ordering must hide it.
package fakefw

import (
	"fmt"
	"strconv"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// Value is one scripted attribute value.
type Value struct {
	Tag string
	Rep string
	Obj *Object
}

func (v Value) TypeTag() string { return v.Tag }
func (v Value) Repr() string    { return v.Rep }
func (v Value) Object() (firmware.Object, bool) {
	if v.Obj != nil {
		return v.Obj, true
	}
	return nil, false
}

// Func returns a callable-tagged value.
func Func() Value { return Value{Tag: "function", Rep: "<function>"} }

// Str returns a string literal value with a single-quoted repr.
func Str(s string) Value { return Value{Tag: "str", Rep: "'" + s + "'"} }

// Int returns an integer literal value.
func Int(n int) Value { return Value{Tag: "int", Rep: strconv.Itoa(n)} }

// Class returns a composite-type value backed by o.
func Class(o *Object) Value { return Value{Tag: "type", Rep: "<class>", Obj: o} }

// Blob returns a value with an arbitrary tag and no member view.
func Blob(tag string) Value { return Value{Tag: tag, Rep: "<" + tag + ">"} }

// Object is a scriptable member set.
type Object struct {
	attrs map[string]Value
	fails map[string]error
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{attrs: map[string]Value{}, fails: map[string]error{}}
}

// Set adds or replaces a member.
func (o *Object) Set(name string, v Value) *Object {
	o.attrs[name] = v
	return o
}

// Fail makes reading name return err, simulating a raising property.
func (o *Object) Fail(name string, err error) *Object {
	o.fails[name] = err
	return o
}

func (o *Object) AttrNames() []string {
	names := make([]string, 0, len(o.attrs)+len(o.fails))
	for n := range o.attrs {
		names = append(names, n)
	}
	for n := range o.fails {
		names = append(names, n)
	}
	return names
}

func (o *Object) Attr(name string) (firmware.Value, error) {
	if err, ok := o.fails[name]; ok {
		return nil, err
	}
	v, ok := o.attrs[name]
	if !ok {
		return nil, fmt.Errorf("no attribute %q", name)
	}
	return v, nil
}

// Runtime is the fake device.
type Runtime struct {
	Identity firmware.Uname
	Free     int

	modules  map[string]*Object
	loaded   map[string]bool
	Reclaims int
}

// NewRuntime returns an empty runtime with a roomy heap.
func NewRuntime(u firmware.Uname) *Runtime {
	return &Runtime{
		Identity: u,
		Free:     64 * 1024,
		modules:  map[string]*Object{},
		loaded:   map[string]bool{},
	}
}

// AddModule registers a module object under a dotted name.
func (r *Runtime) AddModule(name string, o *Object) *Runtime {
	r.modules[name] = o
	return r
}

// Loaded reports whether a module is currently in the module cache.
func (r *Runtime) Loaded(name string) bool { return r.loaded[name] }

func (r *Runtime) Uname() firmware.Uname { return r.Identity }

func (r *Runtime) Import(name string) (firmware.Object, error) {
	o, ok := r.modules[name]
	if !ok {
		return nil, firmware.ErrNotPresent{Name: name}
	}
	r.loaded[name] = true
	return o, nil
}

func (r *Runtime) Evict(name string) { delete(r.loaded, name) }

func (r *Runtime) Reclaim() { r.Reclaims++ }

func (r *Runtime) MemFree() int { return r.Free }

// Package gofw exposes yaegi's precompiled standard-library symbol tables as
// an introspectable runtime. It exists to prove the firmware seam: the same
// walker that stubs the Lua device runtime stubs Go packages on the host.
package gofw

import (
	"fmt"
	"reflect"
	gort "runtime"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/stdlib"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// Runtime serves modules out of stdlib.Symbols. Import names use dots for
// nesting ("net.http"); they map to yaegi's "<path>/<pkg>" keys.
type Runtime struct {
	uname  firmware.Uname
	gauge  *firmware.HeapGauge
	loaded map[string]bool
}

// New builds the host runtime with the given identity and heap budget.
func New(uname firmware.Uname, heapBudget int) *Runtime {
	return &Runtime{
		uname:  uname,
		gauge:  firmware.NewHeapGauge(heapBudget),
		loaded: map[string]bool{},
	}
}

func symbolKey(name string) string {
	path := strings.ReplaceAll(name, ".", "/")
	last := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		last = path[i+1:]
	}
	return path + "/" + last
}

func (r *Runtime) Uname() firmware.Uname { return r.uname }

func (r *Runtime) Import(name string) (firmware.Object, error) {
	syms, ok := stdlib.Symbols[symbolKey(name)]
	if !ok {
		return nil, firmware.ErrNotPresent{Name: name}
	}
	r.loaded[name] = true
	return &object{syms: syms}, nil
}

func (r *Runtime) Evict(name string) { delete(r.loaded, name) }

// Loaded reports whether a module is in the cache; used by tests.
func (r *Runtime) Loaded(name string) bool { return r.loaded[name] }

func (r *Runtime) Reclaim() { gort.GC() }

func (r *Runtime) MemFree() int { return r.gauge.Free() }

type object struct {
	syms map[string]reflect.Value
}

func (o *object) AttrNames() []string {
	names := make([]string, 0, len(o.syms))
	for n := range o.syms {
		names = append(names, n)
	}
	return names
}

func (o *object) Attr(name string) (firmware.Value, error) {
	rv, ok := o.syms[name]
	if !ok {
		return nil, fmt.Errorf("no symbol %q", name)
	}
	return value{rv: rv}, nil
}

type value struct {
	rv reflect.Value
}

// TypeTag normalizes reflect kinds onto the classifier's tag vocabulary.
// yaegi represents a type symbol as a typed nil pointer, so a nil pointer
// reads as "type".
func (v value) TypeTag() string {
	rv := v.rv
	if !rv.IsValid() {
		return "nil"
	}
	switch rv.Kind() {
	case reflect.Func:
		return "function"
	case reflect.String:
		return "str"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Ptr:
		if rv.IsNil() {
			return "type"
		}
	}
	return strings.ToLower(rv.Kind().String())
}

func (v value) Repr() string {
	rv := v.rv
	if !rv.IsValid() {
		return "None"
	}
	switch rv.Kind() {
	case reflect.String:
		return "'" + strings.ReplaceAll(rv.String(), "'", `\'`) + "'"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	default:
		return rv.Type().String()
	}
}

// Object exposes the method set of a type symbol so composite expansion has
// something to walk.
func (v value) Object() (firmware.Object, bool) {
	if v.TypeTag() != "type" {
		return nil, false
	}
	return &typeObject{t: v.rv.Type().Elem()}, true
}

type typeObject struct {
	t reflect.Type
}

func (o *typeObject) receiver() reflect.Type {
	if o.t.Kind() == reflect.Interface {
		return o.t
	}
	return reflect.PtrTo(o.t)
}

func (o *typeObject) AttrNames() []string {
	rt := o.receiver()
	names := make([]string, 0, rt.NumMethod())
	for i := 0; i < rt.NumMethod(); i++ {
		names = append(names, rt.Method(i).Name)
	}
	return names
}

func (o *typeObject) Attr(name string) (firmware.Value, error) {
	rt := o.receiver()
	m, ok := rt.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("no method %q", name)
	}
	if o.t.Kind() == reflect.Interface {
		// Interface methods carry no func value; synthesize one by type.
		return value{rv: reflect.New(m.Type).Elem()}, nil
	}
	return value{rv: m.Func}, nil
}

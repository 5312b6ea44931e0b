// Package luafw hosts the device firmware as an embedded Lua interpreter.
// A firmware image is a directory of Lua module sources; each file becomes a
// preloaded module on one Lua state, and the stub core introspects whatever
// those modules put into their returned tables.
package luafw

import (
	"fmt"
	"io/fs"
	"path/filepath"
	gort "runtime"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// Runtime is the Lua-backed firmware runtime.
type Runtime struct {
	L     *lua.LState
	uname firmware.Uname
	gauge *firmware.HeapGauge
}

// New builds a Lua state with a bounded registry, opens the small lib set a
// firmware build would carry, and preloads every .lua file under image as a
// module. Nested files become slash-named modules ("umqtt/simple").
func New(image string, uname firmware.Uname, heapBudget int) (*Runtime, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  registryMaxFromBudget(heapBudget),
		RegistryGrowStep: 0,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib(lua.LoadLibName, lua.OpenPackage)
	openLib(lua.BaseLibName, lua.OpenBase)
	openLib(lua.TabLibName, lua.OpenTable)
	openLib(lua.StringLibName, lua.OpenString)
	openLib(lua.MathLibName, lua.OpenMath)

	rt := &Runtime{L: L, uname: uname, gauge: firmware.NewHeapGauge(heapBudget)}
	if err := rt.preloadImage(image); err != nil {
		L.Close()
		return nil, err
	}
	return rt, nil
}

func registryMaxFromBudget(heapBudget int) int {
	if heapBudget <= 0 {
		return 256
	}
	n := heapBudget / 64
	if n < 128 {
		n = 128
	}
	if n > 4096 {
		n = 4096
	}
	return n
}

func (r *Runtime) preloadImage(image string) error {
	return filepath.WalkDir(image, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".lua") {
			return nil
		}
		rel, err := filepath.Rel(image, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".lua")
		dotted := strings.ReplaceAll(name, "/", ".")
		fn, err := r.L.LoadFile(path)
		if err != nil {
			return fmt.Errorf("compile module %s: %w", dotted, err)
		}
		r.L.PreloadModule(dotted, func(L *lua.LState) int {
			L.Push(fn)
			L.Call(0, 1)
			return 1
		})
		return nil
	})
}

// Close releases the Lua state.
func (r *Runtime) Close() { r.L.Close() }

func (r *Runtime) Uname() firmware.Uname { return r.uname }

// Import requires a preloaded module and returns its table as a live object.
func (r *Runtime) Import(name string) (firmware.Object, error) {
	if !r.present(name) {
		return nil, firmware.ErrNotPresent{Name: name}
	}
	err := r.L.CallByParam(lua.P{
		Fn:      r.L.GetGlobal("require"),
		NRet:    1,
		Protect: true,
	}, lua.LString(name))
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	ret := r.L.Get(-1)
	r.L.Pop(1)
	tbl, _ := ret.(*lua.LTable)
	// Modules that return a non-table still count as imported; they just
	// have no members to stub.
	return &luaObject{rt: r, tbl: tbl}, nil
}

func (r *Runtime) present(name string) bool {
	pkg, ok := r.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return false
	}
	if preload, ok := pkg.RawGetString("preload").(*lua.LTable); ok {
		if preload.RawGetString(name) != lua.LNil {
			return true
		}
	}
	if loaded, ok := pkg.RawGetString("loaded").(*lua.LTable); ok {
		if loaded.RawGetString(name) != lua.LNil {
			return true
		}
	}
	return false
}

// Evict drops a module from package.loaded so its table can be collected.
func (r *Runtime) Evict(name string) {
	pkg, ok := r.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	if loaded, ok := pkg.RawGetString("loaded").(*lua.LTable); ok {
		loaded.RawSetString(name, lua.LNil)
	}
}

// Reclaim collects the Go heap backing evicted Lua objects.
func (r *Runtime) Reclaim() { gort.GC() }

func (r *Runtime) MemFree() int { return r.gauge.Free() }

type luaObject struct {
	rt  *Runtime
	tbl *lua.LTable
}

func (o *luaObject) AttrNames() []string {
	if o.tbl == nil {
		return nil
	}
	var names []string
	o.tbl.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			names = append(names, string(ks))
		}
	})
	return names
}

// Attr resolves a member through a protected call so metamethods that raise
// surface as errors instead of aborting the walk.
func (o *luaObject) Attr(name string) (firmware.Value, error) {
	if o.tbl == nil {
		return nil, fmt.Errorf("no attribute %q", name)
	}
	L := o.rt.L
	getter := L.NewFunction(func(L *lua.LState) int {
		L.Push(L.GetField(L.CheckAny(1), L.CheckString(2)))
		return 1
	})
	if err := L.CallByParam(lua.P{Fn: getter, NRet: 1, Protect: true}, o.tbl, lua.LString(name)); err != nil {
		return nil, err
	}
	lv := L.Get(-1)
	L.Pop(1)
	return luaValue{rt: o.rt, lv: lv}, nil
}

type luaValue struct {
	rt *Runtime
	lv lua.LValue
}

func (v luaValue) TypeTag() string { return v.lv.Type().String() }

func (v luaValue) Repr() string {
	switch x := v.lv.(type) {
	case lua.LString:
		return "'" + escapeString(string(x)) + "'"
	default:
		return v.lv.String()
	}
}

func (v luaValue) Object() (firmware.Object, bool) {
	if t, ok := v.lv.(*lua.LTable); ok {
		return &luaObject{rt: v.rt, tbl: t}, true
	}
	return nil, false
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

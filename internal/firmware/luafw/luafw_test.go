package luafw

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
	"github.com/flarebyte/seshat-stubs/internal/testutil"
)

var testUname = firmware.Uname{
	Sysname:  "esp32",
	Nodename: "esp32",
	Release:  "1.10.0",
	Version:  "v1.10-8-g8b7039d7d",
	Machine:  "ESP32 module with ESP32",
}

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	image := t.TempDir()
	require.NoError(t, testutil.WriteTree(image, map[string]string{
		"sample_mod.lua": `
local M = {}
M.NAME = 'x'
M.PI = 3
function M.f() end
M.Inner = { n = 1 }
return M
`,
		"umqtt/simple.lua": `
local M = {}
function M.connect() end
return M
`,
		"angry.lua": `
local M = {}
setmetatable(M, { __index = function(_, k) error('touched ' .. k) end })
return M
`,
		"bare.lua": `return 42`,
	}))
	rt, err := New(image, testUname, 96*1024)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestImport_ExposesModuleMembers(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.Import("sample_mod")
	require.NoError(t, err)

	names := obj.AttrNames()
	sort.Strings(names)
	assert.Equal(t, []string{"Inner", "NAME", "PI", "f"}, names)

	f, err := obj.Attr("f")
	require.NoError(t, err)
	assert.Equal(t, "function", f.TypeTag())

	name, err := obj.Attr("NAME")
	require.NoError(t, err)
	assert.Equal(t, "string", name.TypeTag())
	assert.Equal(t, "'x'", name.Repr())

	pi, err := obj.Attr("PI")
	require.NoError(t, err)
	assert.Equal(t, "number", pi.TypeTag())
	assert.Equal(t, "3", pi.Repr())

	inner, err := obj.Attr("Inner")
	require.NoError(t, err)
	assert.Equal(t, "table", inner.TypeTag())
	io, ok := inner.Object()
	require.True(t, ok)
	n, err := io.Attr("n")
	require.NoError(t, err)
	assert.Equal(t, "1", n.Repr())
}

func TestImport_NestedSlashNaming(t *testing.T) {
	rt := newTestRuntime(t)
	// Nested image files are preloaded under their dotted import name.
	obj, err := rt.Import("umqtt.simple")
	require.NoError(t, err)
	assert.Equal(t, []string{"connect"}, obj.AttrNames())
}

func TestImport_AbsentModule(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.Import("does_not_exist")
	require.Error(t, err)
	assert.True(t, firmware.IsNotPresent(err))
}

func TestImport_NonTableModuleHasNoMembers(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.Import("bare")
	require.NoError(t, err)
	assert.Empty(t, obj.AttrNames())
}

func TestAttr_RaisingMetamethodBecomesError(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.Import("angry")
	require.NoError(t, err)
	_, err = obj.Attr("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "touched anything")
}

func TestEvictAndReimport(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.Import("sample_mod")
	require.NoError(t, err)

	rt.Evict("sample_mod")
	rt.Reclaim()

	// Still present via package.preload, so a later import reloads it.
	obj, err := rt.Import("sample_mod")
	require.NoError(t, err)
	assert.NotEmpty(t, obj.AttrNames())
}

func TestMemFree_WithinBudget(t *testing.T) {
	rt := newTestRuntime(t)
	free := rt.MemFree()
	assert.GreaterOrEqual(t, free, 0)
	assert.LessOrEqual(t, free, 96*1024)
}

func TestRegistryMaxFromBudget(t *testing.T) {
	assert.Equal(t, 256, registryMaxFromBudget(0))
	assert.Equal(t, 128, registryMaxFromBudget(1024))
	assert.Equal(t, 1024, registryMaxFromBudget(64*1024))
	assert.Equal(t, 4096, registryMaxFromBudget(1<<30))
}

func TestReprEscapesQuotes(t *testing.T) {
	assert.Equal(t, `it\'s \\ here`, escapeString(`it's \ here`))
}

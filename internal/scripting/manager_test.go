package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0o644))
	return dir
}

func hasLevel(logs *observer.ObservedLogs, level zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == level {
			return true
		}
	}
	return false
}

func TestManager_LoadScript_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "orc.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadScript("orc", filepath.Join(dir, "orc.lua"), 0))
	assert.True(t, mgr.Has("orc"))
	ret, err := mgr.CallHook("orc", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.LoadScript("empty", filepath.Join(dir, "empty.lua"), 0))
	ret, err := mgr.CallHook("empty", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownScript_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("no_such_script", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zapcore.InfoLevel), "expected Info log for missing script")
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadScript("bad", filepath.Join(dir, "bad.lua"), 0))
	ret, err := mgr.CallHook("bad", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zapcore.WarnLevel), "expected Warn log for Lua runtime error")
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "shared.lua", `
		function global_hook()
			return 42
		end
	`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	ret, err := mgr.CallHook("unknown", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManager_LoadGlobal_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0o644))
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	ret, err := mgr.CallHook("anything", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_LoadDir_KeysByFileName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orc.lua"), []byte(`function who() return "orc" end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "global.lua"), []byte(`function who() return "global" end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(`ignored`), 0o644))

	keys, err := mgr.LoadDir(dir, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orc", "__global__"}, keys)

	ret, err := mgr.CallHook("orc", "who")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("orc"), ret)

	ret, err = mgr.CallHook("ferak", "who")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("global"), ret)
}

func TestManager_LoadDir_Missing(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.LoadDir(filepath.Join(t.TempDir(), "nope"), 0)
	assert.Error(t, err)
}

func TestManager_LoadScript_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	err := mgr.LoadScript("bad", filepath.Join(dir, "bad.lua"), 0)
	assert.Error(t, err)
	assert.False(t, mgr.Has("bad"))
}

func TestManager_LoadScript_EmptyKey(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "x.lua", `x = 1`)
	assert.Error(t, mgr.LoadScript("", filepath.Join(dir, "x.lua"), 0))
}

func TestManager_CallHook_LimitResetPerCall(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "busy.lua", `
		function busy()
			local n = 0
			for i = 1, 1000 do n = n + 1 end
			return n
		end
	`)
	require.NoError(t, mgr.LoadScript("busy", filepath.Join(dir, "busy.lua"), 20_000))
	for i := 0; i < 20; i++ {
		ret, err := mgr.CallHook("busy", "busy")
		require.NoError(t, err)
		require.Equal(t, lua.LNumber(1000), ret, "call %d", i)
	}
}

func TestManager_CallHook_RunawayHookIsStopped(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "spin.lua", `function spin() while true do end end`)
	require.NoError(t, mgr.LoadScript("spin", filepath.Join(dir, "spin.lua"), 1_000))
	ret, err := mgr.CallHook("spin", "spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zapcore.WarnLevel))
}

func TestManager_ChooseAction(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "oozeling.lua", `
		function choose_action(self, target)
			if self.health < target.health then
				return "attack"
			end
			return self.name
		end
	`)
	require.NoError(t, mgr.LoadScript("oozeling", filepath.Join(dir, "oozeling.lua"), 0))

	weak := scripting.FighterInfo{Name: "Oozeling", Health: 5, MaxHealth: 60}
	strong := scripting.FighterInfo{Name: "Hero", Health: 90, MaxHealth: 100}

	name, ok := mgr.ChooseAction("oozeling", weak, strong)
	require.True(t, ok)
	assert.Equal(t, "attack", name)

	name, ok = mgr.ChooseAction("oozeling", strong, weak)
	require.True(t, ok)
	assert.Equal(t, "Hero", name)
}

func TestManager_ChooseAction_NonStringReturn(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "num.lua", `function choose_action() return 7 end`)
	require.NoError(t, mgr.LoadScript("num", filepath.Join(dir, "num.lua"), 0))
	_, ok := mgr.ChooseAction("num", scripting.FighterInfo{}, scripting.FighterInfo{})
	assert.False(t, ok)

	_, ok = mgr.ChooseAction("missing", scripting.FighterInfo{}, scripting.FighterInfo{})
	assert.False(t, ok)
}

func TestProperty_CallHookMissingScriptNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "key")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		for i := 0; i < count; i++ {
			mgr.CallHook(key, hook) //nolint:errcheck
		}
	})
}

func TestCallHook_ConcurrentSameScript_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function concurrent_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadScript("conc", filepath.Join(dir, "hooks.lua"), 0))

	const goroutines = 10
	const callsEach = 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				ret, err := mgr.CallHook("conc", "concurrent_hook", lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()
}

func TestNewManager_PanicsOnNilRoller(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil, zap.NewNop())
	})
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	assert.Panics(t, func() {
		scripting.NewManager(roller, nil)
	})
}

func TestManager_Close_ReleasesScripts(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadScript("closing", filepath.Join(dir, "init.lua"), 0))
	mgr.Close()
	ret, err := mgr.CallHook("closing", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.False(t, mgr.Has("closing"))
}

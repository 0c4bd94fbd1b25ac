package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// Hook calls fall back to this VM when no behaviour VM is found.
const globalKey = "__global__"

// ChooseActionHook is the global function a behaviour script defines to pick
// an anomaly's action. It receives (self, target) fighter tables and returns
// an action name.
const ChooseActionHook = "choose_action"

// vm is one sandboxed LState. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel context.CancelFunc
	limit  int
}

// Manager owns one sandboxed LState per behaviour script and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same VM are serialized;
// different VMs run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager called with nil roller")
	}
	if logger == nil {
		panic("scripting: NewManager called with nil logger")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScript creates a VM for key from the single Lua file at path.
//
// Precondition: key must be non-empty.
// Postcondition: key's VM is registered, replacing any previous one; returns
// error on Lua load failure.
func (m *Manager) LoadScript(key, path string, instLimit int) error {
	return m.loadInto(key, []string{path}, instLimit)
}

// LoadDir loads every *.lua file in dir into its own VM keyed by the file
// name without extension, so "oozeling.lua" serves the "oozeling" behaviour.
// A file named "global.lua" is loaded as the shared fallback VM instead.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the keys loaded, or the first error encountered.
func (m *Manager) LoadDir(dir string, instLimit int) ([]string, error) {
	files, err := luaFiles(dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, path := range files {
		key := strings.TrimSuffix(filepath.Base(path), ".lua")
		if key == "global" {
			key = globalKey
		}
		if err := m.loadInto(key, []string{path}, instLimit); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// LoadGlobal creates the shared fallback VM from every *.lua file in dir,
// executed in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(dir string, instLimit int) error {
	files, err := luaFiles(dir)
	if err != nil {
		return err
	}
	return m.loadInto(globalKey, files, instLimit)
}

func luaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *Manager) loadInto(key string, files []string, instLimit int) error {
	if key == "" {
		return fmt.Errorf("scripting: empty script key")
	}
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L, key)

	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{L: L, cancel: cancel, limit: instLimit}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.cancel()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: loaded", zap.String("script", key), zap.Int("files", len(files)))
	return nil
}

// Has reports whether a VM is loaded for key.
func (m *Manager) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[key]
	return ok
}

// CallHook calls the named Lua global function in key's VM. If key has no VM,
// the global VM is tried as a fallback. Returns (LNil, nil) if the hook is not
// defined or no VM exists. Lua runtime errors, including an exhausted
// instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances not bound to another LState.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(key, hook, func(*lua.LState) []lua.LValue { return args })
}

// ChooseAction runs the choose_action hook for the behaviour key with self
// and target converted to Lua tables.
//
// Postcondition: Returns (name, true) iff the hook exists and returned a string.
func (m *Manager) ChooseAction(key string, self, target FighterInfo) (string, bool) {
	ret, _ := m.call(key, ChooseActionHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{self.table(L), target.table(L)}
	})
	s, ok := ret.(lua.LString)
	if !ok {
		return "", false
	}
	return string(s), true
}

func (m *Manager) call(key, hook string, args func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[key]
	if !ok {
		v = m.vms[globalKey]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for script",
			zap.String("script", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	L := v.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	v.cancel()
	v.cancel = resetLimit(L, v.limit)

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()

	for _, v := range vms {
		v.mu.Lock()
		v.cancel()
		v.L.Close()
		v.mu.Unlock()
	}
}

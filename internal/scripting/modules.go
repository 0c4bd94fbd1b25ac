package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// FighterInfo is a snapshot of a battle participant passed to Lua hooks.
type FighterInfo struct {
	Name         string
	Kind         string
	Level        int
	Health       int
	MaxHealth    int
	Mana         int
	MaxMana      int
	Strength     int
	Agility      int
	Intelligence int
}

func (f FighterInfo) table(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(f.Name))
	L.SetField(t, "kind", lua.LString(f.Kind))
	L.SetField(t, "level", lua.LNumber(f.Level))
	L.SetField(t, "health", lua.LNumber(f.Health))
	L.SetField(t, "max_health", lua.LNumber(f.MaxHealth))
	L.SetField(t, "mana", lua.LNumber(f.Mana))
	L.SetField(t, "max_mana", lua.LNumber(f.MaxMana))
	L.SetField(t, "strength", lua.LNumber(f.Strength))
	L.SetField(t, "agility", lua.LNumber(f.Agility))
	L.SetField(t, "intelligence", lua.LNumber(f.Intelligence))
	return t
}

// RegisterModules registers the engine.* Lua tables into L:
//
//	engine.log.debug|info|warn(msg)
//	engine.dice.roll(n)       -- uniform int in [1, n]
//	engine.dice.chance(pct)   -- true with probability pct/100
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, key string) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L, key))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState, key string) *lua.LTable {
	logger := m.logger.With(zap.String("script", key))
	levels := map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
	}
	mod := L.NewTable()
	for name, fn := range levels {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "sides must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Intn(n) + 1))
		return 1
	}))
	L.SetField(mod, "chance", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(m.roller.Check("script", L.CheckInt(1))))
		return 1
	}))
	return mod
}

package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/danielsamuels/Rocket-League-Replays/internal/derive"
)

// Engine wraps a single gopher-lua VM holding overlay formatting hooks.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under
// scriptsDir/overlay. A missing directory leaves only the Go defaults.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(filepath.Join(scriptsDir, "overlay")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load overlay scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString evaluates a chunk, for hooks supplied inline.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasHook reports whether a global Lua function is defined.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// FormatTimer renders the match clock through format_timer(seconds),
// falling back to m:ss.
func (e *Engine) FormatTimer(seconds float64) string {
	if s, ok := e.callStringFunc("format_timer", lua.LNumber(seconds)); ok {
		return s
	}
	return derive.FormatClock(seconds)
}

// FormatBoost renders a boost label through format_boost(percent),
// falling back to the bare number.
func (e *Engine) FormatBoost(percent int) string {
	if s, ok := e.callStringFunc("format_boost", lua.LNumber(percent)); ok {
		return s
	}
	return strconv.Itoa(percent)
}

// callStringFunc calls a Lua hook and returns its string result. ok is false
// when the hook is absent or fails.
func (e *Engine) callStringFunc(name string, args ...lua.LValue) (string, bool) {
	fn, isFn := e.vm.GetGlobal(name).(*lua.LFunction)
	if !isFn {
		return "", false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return "", false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if result == lua.LNil {
		return "", false
	}
	return lua.LVAsString(result), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

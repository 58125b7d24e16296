package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hooks loads and runs room on-enter scripts. Each *.lua file in the hook
// directory becomes one hook named after its basename; a hook must define an
// on_enter(room) function returning a narration string.
//
// Each run executes in a fresh sandboxed VM, so hooks cannot leak state
// between rooms or turns.
type Hooks struct {
	sources map[string]string
	limit   int
	logger  *zap.Logger
}

// NewHooks creates an empty hook set.
//
// Precondition: logger must not be nil; limit >= 0 (0 = DefaultInstructionLimit).
func NewHooks(limit int, logger *zap.Logger) *Hooks {
	return &Hooks{
		sources: make(map[string]string),
		limit:   limit,
		logger:  logger,
	}
}

// Load reads every *.lua file in dir and registers it as a hook keyed by the
// file's basename without extension.
//
// Precondition: dir must be a readable directory.
// Postcondition: Has(name) is true for every loaded file.
func (h *Hooks) Load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading hook dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		h.sources[name] = string(data)
	}
	return nil
}

// Register adds an in-memory hook source, overwriting any existing hook with
// the same name.
func (h *Hooks) Register(name, source string) {
	h.sources[name] = source
}

// Has reports whether a hook with the given name is registered.
func (h *Hooks) Has(name string) bool {
	_, ok := h.sources[name]
	return ok
}

// RunOnEnter executes the named hook's on_enter function with a read-only
// room table and returns its narration. A missing hook returns ("", nil);
// script errors are returned for the caller to degrade on.
//
// Postcondition: the VM used for the run is closed before returning.
func (h *Hooks) RunOnEnter(name, roomTitle string, features []string) (string, error) {
	source, ok := h.sources[name]
	if !ok {
		return "", nil
	}

	L := newSandboxedState(h.limit)
	defer L.Close()

	if err := L.DoString(source); err != nil {
		return "", fmt.Errorf("loading hook %q: %w", name, err)
	}

	fn := L.GetGlobal("on_enter")
	if fn.Type() != lua.LTFunction {
		return "", fmt.Errorf("hook %q does not define on_enter", name)
	}

	room := L.NewTable()
	room.RawSetString("title", lua.LString(roomTitle))
	featureTable := L.NewTable()
	for _, f := range features {
		featureTable.Append(lua.LString(f))
	}
	room.RawSetString("features", featureTable)

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, room); err != nil {
		return "", fmt.Errorf("running hook %q: %w", name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	if s, ok := ret.(lua.LString); ok {
		return string(s), nil
	}
	return "", nil
}

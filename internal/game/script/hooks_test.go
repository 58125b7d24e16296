package script_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/game/script"
)

func TestRunOnEnter_ReturnsNarration(t *testing.T) {
	h := script.NewHooks(0, zap.NewNop())
	h.Register("shrine", `
function on_enter(room)
  return "A cold light settles over " .. room.title .. "."
end
`)

	narration, err := h.RunOnEnter("shrine", "The Shrine", nil)
	require.NoError(t, err)
	assert.Equal(t, "A cold light settles over The Shrine.", narration)
}

func TestRunOnEnter_ReadsFeatures(t *testing.T) {
	h := script.NewHooks(0, zap.NewNop())
	h.Register("hall", `
function on_enter(room)
  if room.features[1] == "scorched" then
    return "Soot stains every surface."
  end
  return ""
end
`)

	narration, err := h.RunOnEnter("hall", "The Hall", []string{"scorched"})
	require.NoError(t, err)
	assert.Equal(t, "Soot stains every surface.", narration)
}

func TestRunOnEnter_MissingHookIsNoOp(t *testing.T) {
	h := script.NewHooks(0, zap.NewNop())
	narration, err := h.RunOnEnter("nowhere", "Nowhere", nil)
	require.NoError(t, err)
	assert.Empty(t, narration)
}

func TestRunOnEnter_MissingFunctionErrors(t *testing.T) {
	h := script.NewHooks(0, zap.NewNop())
	h.Register("broken", `local x = 1`)

	_, err := h.RunOnEnter("broken", "Anywhere", nil)
	assert.Error(t, err)
}

func TestRunOnEnter_InstructionLimitStopsRunawayScripts(t *testing.T) {
	h := script.NewHooks(1000, zap.NewNop())
	h.Register("spin", `
function on_enter(room)
  while true do end
end
`)

	_, err := h.RunOnEnter("spin", "The Pit", nil)
	assert.Error(t, err, "unbounded loops must be cut off")
}

func TestRunOnEnter_SandboxStripsDangerousGlobals(t *testing.T) {
	h := script.NewHooks(0, zap.NewNop())
	h.Register("probe", `
function on_enter(room)
  if os ~= nil or io ~= nil or load ~= nil or dofile ~= nil then
    return "escaped"
  end
  return "contained"
end
`)

	narration, err := h.RunOnEnter("probe", "The Vault", nil)
	require.NoError(t, err)
	assert.Equal(t, "contained", narration)
}

func TestLoad_ReadsLuaFilesByBasename(t *testing.T) {
	dir := t.TempDir()
	source := "function on_enter(room)\n  return \"dust\"\nend\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crypt.lua"), []byte(source), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	h := script.NewHooks(0, zap.NewNop())
	require.NoError(t, h.Load(dir))

	assert.True(t, h.Has("crypt"))
	assert.False(t, h.Has("notes"))

	narration, err := h.RunOnEnter("crypt", "The Crypt", nil)
	require.NoError(t, err)
	assert.Equal(t, "dust", narration)
}

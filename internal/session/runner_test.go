package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/engine"
	"github.com/karstgames/undercroft/internal/game/corpse"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/world"
	"github.com/karstgames/undercroft/internal/session"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	graph := world.NewGraph(room, "test", zap.NewNop())
	player := engine.NewPlayer("Tess", room.ID, 100, 2)
	state := engine.NewState(player, graph, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 12)
	return engine.New(state, corpse.DefaultPossessions(), engine.Deps{
		Interpreter: collab.StaticInterpreter{},
		Dice:        dice.NewFixed(0),
	})
}

func TestRunner_AddGetRemove(t *testing.T) {
	r := session.NewRunner(zap.NewNop())

	sess, err := r.Add("alpha", newEngine(t))
	require.NoError(t, err)
	assert.Equal(t, "alpha", sess.ID)
	assert.Equal(t, 1, r.Len())

	_, err = r.Add("alpha", newEngine(t))
	assert.Error(t, err, "duplicate session ids are rejected")

	got, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Same(t, sess, got)

	r.Remove("alpha")
	_, ok = r.Get("alpha")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestSession_SerializesTurns(t *testing.T) {
	r := session.NewRunner(zap.NewNop())
	sess, err := r.Add("alpha", newEngine(t))
	require.NoError(t, err)

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sess.ProcessTurn(context.Background(), "look around")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, turns, sess.Engine().State().Turn, "the turn counter stays single-writer under concurrency")
}

func TestRunner_SessionsAreIndependent(t *testing.T) {
	r := session.NewRunner(zap.NewNop())
	a, err := r.Add("a", newEngine(t))
	require.NoError(t, err)
	b, err := r.Add("b", newEngine(t))
	require.NoError(t, err)

	_, err = a.ProcessTurn(context.Background(), "look around")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Engine().State().Turn)
	assert.Equal(t, 0, b.Engine().State().Turn, "turns in one session never touch another")
}

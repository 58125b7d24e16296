package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/engine"
	"github.com/karstgames/undercroft/internal/game/corpse"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
	"github.com/karstgames/undercroft/internal/game/status"
	"github.com/karstgames/undercroft/internal/game/world"
)

// scriptedInterpreter returns a fixed result for every input.
type scriptedInterpreter struct {
	result collab.InterpretResult
	err    error
}

func (s scriptedInterpreter) Interpret(context.Context, collab.InterpretRequest) (collab.InterpretResult, error) {
	return s.result, s.err
}

// failingGenerator always errors, forcing the graph's fallback room.
type failingGenerator struct{}

func (failingGenerator) GenerateRoom(context.Context, collab.GenerateRequest) (*collab.RoomDescriptor, error) {
	return nil, errors.New("generator unavailable")
}

// panickingOracle simulates a collaborator driving the applier into an
// unrecoverable state mid-turn.
type panickingOracle struct{}

func (panickingOracle) Craft(context.Context, collab.CraftRequest) (*collab.ItemSpec, error) {
	panic("oracle corrupted the batch")
}

func intentsOf(in collab.Intent) collab.InterpretResult {
	return collab.InterpretResult{Narrative: "You act.", Success: true, Intents: []collab.Intent{in}}
}

func newTestState(t *testing.T, start *world.Room) *engine.State {
	t.Helper()
	graph := world.NewGraph(start, "test crypt", zap.NewNop())
	player := engine.NewPlayer("Tess", start.ID, 100, 10)
	return engine.NewState(player, graph, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 12)
}

func newTestEngine(t *testing.T, state *engine.State, deps engine.Deps) *engine.Engine {
	t.Helper()
	if deps.Dice == nil {
		deps.Dice = dice.NewFixed(0)
	}
	return engine.New(state, corpse.DefaultPossessions(), deps)
}

func TestProcessTurn_UnarmedKillCreatesCorpse(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	room.NPCs = append(room.NPCs, npc.NewHostile("giant rat", 8, 1))
	state := newTestState(t, room)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{Attack: []string{"rat"}})},
	})

	result, err := eng.ProcessTurn(context.Background(), "attack rat")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Turn)
	assert.Empty(t, room.NPCs, "dead monster must leave the room roster")
	require.Len(t, room.CorpseIDs, 1)

	c, ok := eng.Corpses().Get(room.CorpseIDs[0])
	require.True(t, ok)
	assert.Equal(t, corpse.ConditionFresh, c.Condition)
	assert.Equal(t, 0, c.Decomposition)
	assert.True(t, c.Searchable)

	assert.GreaterOrEqual(t, state.Player.XP, 5)
}

func TestProcessTurn_GeneratorFailureFallsBackAndLinksBoth(t *testing.T) {
	origin := &world.Room{
		ID:      "origin",
		Title:   "The Origin",
		Doors:   []*world.Door{{Direction: world.North}},
		Visited: true,
	}
	state := newTestState(t, origin)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{Move: "north"})},
		Generator:   failingGenerator{},
	})

	_, err := eng.ProcessTurn(context.Background(), "go north")
	require.NoError(t, err)

	northDoor, ok := origin.Door(world.North)
	require.True(t, ok)
	require.NotEmpty(t, northDoor.LeadsTo, "origin door must be linked after passage")

	dest, ok := state.Graph.Room(northDoor.LeadsTo)
	require.True(t, ok)
	assert.Equal(t, dest.ID, state.Player.RoomID)

	backDoor, ok := dest.Door(world.South)
	require.True(t, ok)
	assert.Equal(t, origin.ID, backDoor.LeadsTo, "fallback room must link back to origin")
	assert.False(t, backDoor.Locked)
}

func TestProcessTurn_FirstVisitGrantsExplorationXP(t *testing.T) {
	origin := &world.Room{
		ID:      "origin",
		Title:   "The Origin",
		Doors:   []*world.Door{{Direction: world.East}},
		Visited: true,
	}
	state := newTestState(t, origin)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{Move: "east"})},
	})

	_, err := eng.ProcessTurn(context.Background(), "go east")
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultExplorationXP, state.Player.XP)
}

func TestProcessTurn_TakeAllEmptiesRoom(t *testing.T) {
	room := &world.Room{ID: "hoard", Title: "The Hoard", Visited: true}
	room.Items = append(room.Items,
		item.New("rusty key", item.CategoryQuest),
		item.New("iron sword", item.CategoryWeapon),
	)
	state := newTestState(t, room)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{Pickup: []string{"all"}})},
	})

	_, err := eng.ProcessTurn(context.Background(), "take all")
	require.NoError(t, err)

	assert.Empty(t, room.Items)
	assert.Len(t, state.Player.Inventory, 2)
	assert.True(t, state.Player.Wielding(), "first weapon picked up is auto-equipped")
}

func TestProcessTurn_DuplicateStatusKeepsMaxDuration(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	state := newTestState(t, room)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{
			AddStatuses: []collab.StatusSpec{
				{Name: "Poisoned", Duration: 3, DamagePerTurn: 2},
				{Name: "Poisoned", Duration: 5, DamagePerTurn: 2},
			},
		})},
	})

	_, err := eng.ProcessTurn(context.Background(), "prick yourself twice")
	require.NoError(t, err)

	require.Equal(t, 1, state.Player.Effects.Len())
	eff, ok := state.Player.Effects.Get("Poisoned")
	require.True(t, ok)
	// Duration 5 minus the turn's single tick.
	assert.Equal(t, 4, eff.Duration)
}

func TestProcessTurn_MultipleIntentsTickOnce(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	room.Items = append(room.Items, item.New("pebble", item.CategoryMisc))
	state := newTestState(t, room)
	state.Player.Effects.Add(&status.Effect{ID: "fx", Name: "Bleeding", Duration: 10, DamagePerTurn: 2})

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: collab.InterpretResult{
			Narrative: "You scoop up the pebble and linger.",
			Success:   true,
			Intents: []collab.Intent{
				{Pickup: []string{"pebble"}},
				{AddFeatures: []string{"disturbed dust"}},
			},
		}},
	})

	_, err := eng.ProcessTurn(context.Background(), "take pebble and look around")
	require.NoError(t, err)

	assert.Equal(t, 98, state.Player.Health, "periodic damage applies exactly once per turn")
	assert.Equal(t, 1, state.Turn)
	eff, ok := state.Player.Effects.Get("Bleeding")
	require.True(t, ok)
	assert.Equal(t, 9, eff.Duration)
}

func TestProcessTurn_FailedInterpretationStillAdvancesTurn(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	state := newTestState(t, room)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: collab.InterpretResult{
			Narrative: "You hesitate, unsure how to go about that.",
			Success:   false,
			Intents:   []collab.Intent{{HealthDelta: -50}},
		}},
	})

	result, err := eng.ProcessTurn(context.Background(), "ponder")
	require.NoError(t, err)

	assert.Equal(t, 100, state.Player.Health, "intents must not apply when success is false")
	assert.Equal(t, 1, result.Turn, "the narrative always logs and the turn always advances")
	require.NotEmpty(t, result.Events)
	assert.Equal(t, engine.EventNarrative, result.Events[0].Kind)
}

func TestProcessTurn_InterpreterFailureUsesStaticFallback(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	room.Items = append(room.Items, item.New("copper coin", item.CategoryMisc))
	state := newTestState(t, room)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{err: errors.New("model timeout")},
	})

	result, err := eng.ProcessTurn(context.Background(), "take coin")
	require.NoError(t, err)

	assert.Len(t, state.Player.Inventory, 1, "fallback interpreter still executes the command")
	assert.Equal(t, 1, result.Turn)

	var sawSystem bool
	for _, ev := range result.Events {
		if ev.Kind == engine.EventSystem {
			sawSystem = true
		}
	}
	assert.True(t, sawSystem, "collaborator failure must log a system event")
}

func TestProcessTurn_InvariantViolationRollsBackTurn(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	state := newTestState(t, room)
	state.Player.AddItem(item.New("flint", item.CategoryMaterial))
	state.Player.AddItem(item.New("steel shard", item.CategoryMaterial))

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{
			Pickup: []string{"all"},
			Craft:  []string{"flint", "steel shard"},
		})},
		Oracle: panickingOracle{},
	})

	result, err := eng.ProcessTurn(context.Background(), "strike sparks")
	require.ErrorIs(t, err, engine.ErrTurnAborted)
	require.NotNil(t, result)
	assert.True(t, result.Aborted)

	restored := eng.State()
	assert.Equal(t, 0, restored.Turn, "the turn counter must not advance on an aborted turn")
	assert.Len(t, restored.Player.Inventory, 2, "partial application must be rolled back")

	last := restored.Events[len(restored.Events)-1]
	assert.Contains(t, last.Message, "confused")
}

func TestProcessTurn_CounterAttackCanKillPlayer(t *testing.T) {
	room := &world.Room{ID: "lair", Title: "The Lair", Visited: true}
	brute := npc.NewHostile("stone brute", 200, 50)
	room.NPCs = append(room.NPCs, brute)
	state := newTestState(t, room)
	state.Player.Health = 3

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{Attack: []string{"brute"}})},
	})

	result, err := eng.ProcessTurn(context.Background(), "attack brute")
	require.NoError(t, err)
	assert.True(t, result.Over)
	assert.True(t, state.Over)
	assert.Equal(t, 0, state.Player.Health)

	_, err = eng.ProcessTurn(context.Background(), "attack brute")
	assert.ErrorIs(t, err, engine.ErrGameOver)
}

func TestProcessTurn_SearchCorpseIsIdempotentPerActor(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	victim := npc.NewHostile("gnawed thrall", 4, 1)
	victim.Loot = append(victim.Loot, item.New("bone charm", item.CategoryMisc))
	room.NPCs = append(room.NPCs, victim)
	state := newTestState(t, room)

	attack := intentsOf(collab.Intent{Attack: []string{"thrall"}})
	search := intentsOf(collab.Intent{SearchCorpse: []string{"thrall"}})

	interp := &switchingInterpreter{results: []collab.InterpretResult{attack, search, search}}
	eng := newTestEngine(t, state, engine.Deps{Interpreter: interp})

	ctx := context.Background()
	_, err := eng.ProcessTurn(ctx, "attack thrall")
	require.NoError(t, err)
	_, err = eng.ProcessTurn(ctx, "search thrall")
	require.NoError(t, err)
	require.Len(t, state.Player.Inventory, 1)

	_, err = eng.ProcessTurn(ctx, "search thrall")
	require.NoError(t, err)
	assert.Len(t, state.Player.Inventory, 1, "a second search by the same actor transfers nothing")
}

// switchingInterpreter replays a result sequence, repeating the last entry.
type switchingInterpreter struct {
	results []collab.InterpretResult
	calls   int
}

func (s *switchingInterpreter) Interpret(context.Context, collab.InterpretRequest) (collab.InterpretResult, error) {
	idx := s.calls
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	s.calls++
	return s.results[idx], nil
}

func TestProcessTurn_UseHealingDraught(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	state := newTestState(t, room)
	state.Player.Health = 40
	draught := item.New("healing draught", item.CategoryConsumable)
	draught.SetProp("healing", float64(25))
	state.Player.AddItem(draught)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: intentsOf(collab.Intent{Use: []string{"draught"}})},
	})

	_, err := eng.ProcessTurn(context.Background(), "drink draught")
	require.NoError(t, err)

	assert.Equal(t, 65, state.Player.Health)
	assert.Empty(t, state.Player.Inventory, "consumable is spent on use")
}

func TestProcessTurn_GameClockAdvancesWithTurns(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell", Visited: true}
	state := newTestState(t, room)

	eng := newTestEngine(t, state, engine.Deps{
		Interpreter: scriptedInterpreter{result: collab.InterpretResult{Narrative: "Time passes.", Success: true}},
	})

	before := state.Now()
	_, err := eng.ProcessTurn(context.Background(), "wait")
	require.NoError(t, err)
	assert.Equal(t, 12*time.Minute, state.Now().Sub(before))
}

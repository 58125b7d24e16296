package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/engine"
	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/world"
)

func TestPlayer_AddItem_MergesStacks(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)

	arrow := item.New("arrow", item.CategoryMisc)
	arrow.Stackable = true
	arrow.Quantity = 5
	p.AddItem(arrow)

	more := item.New("Arrow", item.CategoryMisc)
	more.Stackable = true
	more.Quantity = 3
	p.AddItem(more)

	require.Len(t, p.Inventory, 1)
	assert.Equal(t, 8, p.Inventory[0].Quantity)
}

func TestPlayer_FirstWeaponAutoEquips(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)
	assert.False(t, p.Wielding())
	assert.Zero(t, p.WeaponBonus())

	sword := item.New("iron sword", item.CategoryWeapon)
	sword.SetProp("damage", float64(4))
	p.AddItem(sword)

	assert.True(t, p.Wielding())
	assert.Equal(t, 4, p.WeaponBonus())

	// A second weapon does not displace the equipped one.
	axe := item.New("hand axe", item.CategoryWeapon)
	axe.SetProp("damage", float64(6))
	p.AddItem(axe)
	assert.Equal(t, 4, p.WeaponBonus())
}

func TestPlayer_ConsumeAt_DecrementsThenRemoves(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)
	draught := item.New("healing draught", item.CategoryConsumable)
	draught.Stackable = true
	draught.Quantity = 2
	p.AddItem(draught)

	p.ConsumeAt(0)
	require.Len(t, p.Inventory, 1)
	assert.Equal(t, 1, p.Inventory[0].Quantity)

	p.ConsumeAt(0)
	assert.Empty(t, p.Inventory)
}

func TestPlayer_RemoveAt_Unequips(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)
	sword := item.New("iron sword", item.CategoryWeapon)
	p.AddItem(sword)
	require.True(t, p.Wielding())

	p.RemoveAt(0)
	assert.False(t, p.Wielding())
}

func TestPlayer_FindItem_PrefersExactMatch(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)
	p.AddItem(item.New("sword of swords", item.CategoryMisc))
	p.AddItem(item.New("sword", item.CategoryMisc))

	found, idx, ok := p.FindItem("sword")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "sword", found.Name)
}

func TestPlayer_AddXP_LevelCurve(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)

	gained := p.AddXP(99)
	assert.Zero(t, gained)
	assert.Equal(t, 1, p.Level)

	gained = p.AddXP(1)
	assert.Equal(t, 1, gained)
	assert.Equal(t, 2, p.Level)
	assert.Zero(t, p.XP)

	// Level 2 -> 3 needs 200 more.
	gained = p.AddXP(200)
	assert.Equal(t, 1, gained)
	assert.Equal(t, 3, p.Level)
}

func TestPlayer_HealthClamps(t *testing.T) {
	p := engine.NewPlayer("Tess", "cell", 100, 2)
	p.Damage(250)
	assert.Equal(t, 0, p.Health)
	p.Heal(300)
	assert.Equal(t, 100, p.Health)
	p.AdjustHealth(-30)
	assert.Equal(t, 70, p.Health)
}

func TestState_CloneIsDeep(t *testing.T) {
	room := &world.Room{ID: "cell", Title: "A Cell"}
	room.Items = append(room.Items, item.New("pebble", item.CategoryMisc))
	graph := world.NewGraph(room, "test", zap.NewNop())
	player := engine.NewPlayer("Tess", room.ID, 100, 2)
	player.AddItem(item.New("rope", item.CategoryMisc))
	state := engine.NewState(player, graph, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 12)

	snapshot := state.Clone()

	player.Inventory[0].Name = "frayed rope"
	room.Items = nil
	state.Turn = 9

	assert.Equal(t, "rope", snapshot.Player.Inventory[0].Name)
	copiedRoom, ok := snapshot.Graph.Room("cell")
	require.True(t, ok)
	assert.Len(t, copiedRoom.Items, 1)
	assert.Zero(t, snapshot.Turn)
}

func TestState_NowDerivesFromTurn(t *testing.T) {
	room := &world.Room{ID: "cell"}
	graph := world.NewGraph(room, "test", zap.NewNop())
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := engine.NewState(engine.NewPlayer("Tess", room.ID, 100, 2), graph, start, 12)

	assert.Equal(t, start, state.Now())
	state.Turn = 5
	assert.Equal(t, start.Add(60*time.Minute), state.Now())
}

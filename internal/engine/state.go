// Package engine owns the authoritative game state and applies one turn's
// ordered intents through the world, combat, status, rapport, and corpse
// components, advancing the turn clock exactly once per turn.
package engine

import (
	"strings"
	"time"

	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/status"
	"github.com/karstgames/undercroft/internal/game/world"
)

// WeaponSlot is the equipped-slot key for the wielded weapon.
const WeaponSlot = "weapon"

// Player is the player character's mutable state.
type Player struct {
	// ID identifies the player as an actor in rapport records.
	ID string
	// Name is the display name.
	Name string
	// Health is the current hit points in [0, MaxHealth].
	Health int
	// MaxHealth is the maximum hit points.
	MaxHealth int
	// Level is the current character level.
	Level int
	// XP is the accumulated experience toward the next level.
	XP int
	// BaseDamage is the unarmed melee damage.
	BaseDamage int
	// Inventory is the ordered item list; order is stable for display.
	Inventory []*item.Item
	// Equipped maps slot names to equipped items.
	Equipped map[string]*item.Item
	// Effects tracks the player's timed buffs and debuffs.
	Effects *status.Ledger
	// RoomID is the current room.
	RoomID string
}

// NewPlayer creates a player with full health in the given room.
//
// Precondition: name and roomID must be non-empty; maxHealth >= 1.
// Postcondition: Health == MaxHealth; Level == 1.
func NewPlayer(name, roomID string, maxHealth, baseDamage int) *Player {
	return &Player{
		ID:         "player",
		Name:       name,
		Health:     maxHealth,
		MaxHealth:  maxHealth,
		Level:      1,
		BaseDamage: baseDamage,
		Equipped:   make(map[string]*item.Item),
		Effects:    status.NewLedger(),
		RoomID:     roomID,
	}
}

// Heal raises health by amount, capped at MaxHealth.
//
// Precondition: amount >= 0.
func (p *Player) Heal(amount int) {
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// Damage lowers health by amount, floored at 0.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0.
func (p *Player) Damage(amount int) {
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
}

// AdjustHealth applies a signed delta, clamped to [0, MaxHealth].
func (p *Player) AdjustHealth(delta int) {
	if delta >= 0 {
		p.Heal(delta)
	} else {
		p.Damage(-delta)
	}
}

// AddXP grants experience and handles level-ups at level*100 thresholds.
//
// Precondition: amount >= 0.
// Postcondition: Returns the number of levels gained.
func (p *Player) AddXP(amount int) int {
	p.XP += amount
	gained := 0
	for p.XP >= p.Level*100 {
		p.XP -= p.Level * 100
		p.Level++
		gained++
	}
	return gained
}

// AddItem appends an item to the inventory, merging stackable items with the
// same name (case-insensitive) into one entry. The first weapon acquired is
// equipped automatically.
//
// Precondition: it must not be nil.
func (p *Player) AddItem(it *item.Item) {
	if it.Stackable {
		for _, existing := range p.Inventory {
			if existing.Stackable && strings.EqualFold(existing.Name, it.Name) {
				existing.Quantity += it.Quantity
				return
			}
		}
	}
	p.Inventory = append(p.Inventory, it)
	if it.Category == item.CategoryWeapon && p.Equipped[WeaponSlot] == nil {
		p.Equipped[WeaponSlot] = it
	}
}

// FindItem returns the first inventory item matching name, preferring an
// exact case-insensitive match over a substring match.
//
// Postcondition: Returns (item, index, true) or (nil, -1, false).
func (p *Player) FindItem(name string) (*item.Item, int, bool) {
	for i, it := range p.Inventory {
		if it.MatchesExact(name) {
			return it, i, true
		}
	}
	for i, it := range p.Inventory {
		if it.Matches(name) {
			return it, i, true
		}
	}
	return nil, -1, false
}

// ConsumeAt removes one unit of the item at index i: stackable items
// decrement their quantity, and an entry reaching zero (or a non-stackable
// item) is removed outright.
//
// Precondition: i is a valid index into p.Inventory.
func (p *Player) ConsumeAt(i int) {
	it := p.Inventory[i]
	if it.Stackable && it.Quantity > 1 {
		it.Quantity--
		return
	}
	p.RemoveAt(i)
}

// RemoveAt deletes the inventory entry at index i, unequipping it if equipped.
//
// Precondition: i is a valid index into p.Inventory.
func (p *Player) RemoveAt(i int) {
	it := p.Inventory[i]
	for slot, equipped := range p.Equipped {
		if equipped != nil && equipped.ID == it.ID {
			delete(p.Equipped, slot)
		}
	}
	p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
}

// Wielding reports whether a weapon is equipped.
func (p *Player) Wielding() bool {
	return p.Equipped[WeaponSlot] != nil
}

// WeaponBonus returns the equipped weapon's damage property, or 0 unarmed.
func (p *Player) WeaponBonus() int {
	w := p.Equipped[WeaponSlot]
	if w == nil {
		return 0
	}
	return int(w.NumProp("damage"))
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	out := *p
	out.Inventory = make([]*item.Item, 0, len(p.Inventory))
	byID := make(map[string]*item.Item)
	for _, it := range p.Inventory {
		copied := it.Clone()
		out.Inventory = append(out.Inventory, copied)
		byID[copied.ID] = copied
	}
	out.Equipped = make(map[string]*item.Item, len(p.Equipped))
	for slot, it := range p.Equipped {
		if it == nil {
			continue
		}
		if copied, ok := byID[it.ID]; ok {
			out.Equipped[slot] = copied
		} else {
			out.Equipped[slot] = it.Clone()
		}
	}
	out.Effects = p.Effects.Clone()
	return &out
}

// State is the root aggregate for one game session. It is owned exclusively
// by one Engine instance and never shared.
type State struct {
	// Player is the player character.
	Player *Player
	// Graph owns the room arena and lazy expansion.
	Graph *world.Graph
	// Turn is the monotonically increasing turn counter.
	Turn int
	// StartTime anchors the game clock.
	StartTime time.Time
	// MinutesPerTurn converts turns into game-clock time.
	MinutesPerTurn int
	// Events is the append-only event log.
	Events []Event
	// Over is true once the game has ended.
	Over bool
	// Victorious is true when the game ended in victory.
	Victorious bool
}

// NewState creates a session state anchored at startTime.
//
// Precondition: player and graph must not be nil; minutesPerTurn >= 1.
func NewState(player *Player, graph *world.Graph, startTime time.Time, minutesPerTurn int) *State {
	return &State{
		Player:         player,
		Graph:          graph,
		StartTime:      startTime,
		MinutesPerTurn: minutesPerTurn,
	}
}

// Now returns the current game-clock time derived from the turn counter.
func (s *State) Now() time.Time {
	return s.StartTime.Add(time.Duration(s.Turn*s.MinutesPerTurn) * time.Minute)
}

// CurrentRoom returns the player's room.
//
// Postcondition: Returns (room, true) unless the player's RoomID is stale.
func (s *State) CurrentRoom() (*world.Room, bool) {
	return s.Graph.Room(s.Player.RoomID)
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := *s
	out.Player = s.Player.Clone()
	out.Graph = s.Graph.Clone()
	out.Events = append([]Event(nil), s.Events...)
	return &out
}

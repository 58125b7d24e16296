// Package world provides the game world model: rooms, doors, directions, and
// lazy map expansion.
package world

import (
	"strings"

	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
)

// Direction represents a compass direction or vertical movement.
type Direction string

// Standard compass directions and vertical movements.
const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
	Up    Direction = "up"
	Down  Direction = "down"
)

// StandardDirections contains all standard compass and vertical directions.
var StandardDirections = []Direction{North, South, East, West, Up, Down}

// ParseDirection normalizes a direction string, accepting single-letter
// abbreviations. Unknown inputs yield ("", false).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, true
	case "south", "s":
		return South, true
	case "east", "e":
		return East, true
	case "west", "w":
		return West, true
	case "up", "u":
		return Up, true
	case "down", "d":
		return Down, true
	default:
		return "", false
	}
}

// Opposite returns the opposite of a standard direction.
// For unknown directions it returns an empty string.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	case Down:
		return Up
	default:
		return ""
	}
}

// Door is a passage leading out of a room.
//
// Invariant: once LeadsTo is set it never changes, and the reverse door in the
// destination room points back to the origin room.
type Door struct {
	// Direction is the compass or vertical direction of this door.
	Direction Direction
	// Locked indicates the door cannot be passed.
	Locked bool
	// LeadsTo is the destination room ID; empty until the far side is generated.
	LeadsTo string
	// Description is optional flavor text for the door.
	Description string
}

// Room represents a location in the game world. Topology (doors) is immutable
// after creation apart from LeadsTo linking; content is mutable.
type Room struct {
	// ID uniquely identifies this room.
	ID string
	// Title is the short display name.
	Title string
	// Description is the room description shown to players.
	Description string
	// Doors lists the passages out of this room, one per present direction.
	Doors []*Door
	// Items is the mutable floor content.
	Items []*item.Item
	// NPCs is the mutable occupant list.
	NPCs []*npc.NPC
	// Features holds optional descriptive tags.
	Features []string
	// CorpseIDs lists the corpses lying in this room.
	CorpseIDs []string
	// Visited is flipped on the player's first entry; gates the one-time
	// exploration reward.
	Visited bool
	// OnEnterHook is an optional Lua hook name run when the player enters.
	OnEnterHook string
}

// Door returns the door in the given direction, if one exists.
//
// Postcondition: Returns (door, true) if found, or (nil, false) otherwise.
func (r *Room) Door(dir Direction) (*Door, bool) {
	for _, d := range r.Doors {
		if d.Direction == dir {
			return d, true
		}
	}
	return nil, false
}

// ExitDirections returns the directions of all doors, in door order.
func (r *Room) ExitDirections() []Direction {
	out := make([]Direction, 0, len(r.Doors))
	for _, d := range r.Doors {
		out = append(out, d.Direction)
	}
	return out
}

// AddFeature appends a feature tag if not already present (case-insensitive).
func (r *Room) AddFeature(tag string) {
	for _, f := range r.Features {
		if strings.EqualFold(f, tag) {
			return
		}
	}
	r.Features = append(r.Features, tag)
}

// FindItem returns the first item matching name, preferring an exact
// case-insensitive match over a substring match.
//
// Postcondition: Returns (item, index, true) or (nil, -1, false).
func (r *Room) FindItem(name string) (*item.Item, int, bool) {
	for i, it := range r.Items {
		if it.MatchesExact(name) {
			return it, i, true
		}
	}
	for i, it := range r.Items {
		if it.Matches(name) {
			return it, i, true
		}
	}
	return nil, -1, false
}

// RemoveItemAt deletes the item at index i, preserving order.
//
// Precondition: i is a valid index into r.Items.
func (r *Room) RemoveItemAt(i int) {
	r.Items = append(r.Items[:i], r.Items[i+1:]...)
}

// FindNPC returns the first living NPC matching name.
//
// Postcondition: Returns (npc, true) or (nil, false).
func (r *Room) FindNPC(name string) (*npc.NPC, bool) {
	for _, n := range r.NPCs {
		if !n.IsDead() && n.Matches(name) {
			return n, true
		}
	}
	return nil, false
}

// RemoveNPC deletes the NPC with the given ID, preserving order.
// Unknown IDs are a no-op.
func (r *Room) RemoveNPC(id string) {
	for i, n := range r.NPCs {
		if n.ID == id {
			r.NPCs = append(r.NPCs[:i], r.NPCs[i+1:]...)
			return
		}
	}
}

// RemoveCorpseID deletes the corpse id from the room's list, preserving order.
func (r *Room) RemoveCorpseID(id string) {
	for i, c := range r.CorpseIDs {
		if c == id {
			r.CorpseIDs = append(r.CorpseIDs[:i], r.CorpseIDs[i+1:]...)
			return
		}
	}
}

// Humanoids returns all living humanoid NPCs in the room.
func (r *Room) Humanoids() []*npc.NPC {
	var out []*npc.NPC
	for _, n := range r.NPCs {
		if n.Kind == npc.KindHumanoid && !n.IsDead() {
			out = append(out, n)
		}
	}
	return out
}

// UnlockedExitCount returns the number of unlocked doors in the room.
func (r *Room) UnlockedExitCount() int {
	count := 0
	for _, d := range r.Doors {
		if !d.Locked {
			count++
		}
	}
	return count
}

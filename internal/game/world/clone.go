package world

import (
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
)

// Clone returns a deep copy of the room. Doors, items, NPCs, features, and
// corpse ids are all copied; ids are preserved.
func (r *Room) Clone() *Room {
	out := *r
	out.Doors = make([]*Door, 0, len(r.Doors))
	for _, d := range r.Doors {
		copied := *d
		out.Doors = append(out.Doors, &copied)
	}
	out.Items = make([]*item.Item, 0, len(r.Items))
	for _, it := range r.Items {
		out.Items = append(out.Items, it.Clone())
	}
	out.NPCs = make([]*npc.NPC, 0, len(r.NPCs))
	for _, n := range r.NPCs {
		out.NPCs = append(out.NPCs, n.Clone())
	}
	out.Features = append([]string(nil), r.Features...)
	out.CorpseIDs = append([]string(nil), r.CorpseIDs...)
	return &out
}

// NewGraphFromRooms creates a Graph over an existing room arena. Used when
// restoring a cloned snapshot.
//
// Precondition: rooms must not be nil; logger must not be nil.
func NewGraphFromRooms(rooms map[string]*Room, theme string, logger *zap.Logger) *Graph {
	return &Graph{rooms: rooms, theme: theme, logger: logger}
}

// Clone returns a deep copy of the graph and every room in it.
func (g *Graph) Clone() *Graph {
	rooms := make(map[string]*Room, len(g.rooms))
	for id, r := range g.rooms {
		rooms[id] = r.Clone()
	}
	return &Graph{rooms: rooms, theme: g.theme, logger: g.logger}
}

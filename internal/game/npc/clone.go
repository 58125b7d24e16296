package npc

import "github.com/karstgames/undercroft/internal/game/item"

// Clone returns a deep copy of the NPC with the same ID. Used by the engine
// to snapshot pre-turn state for invariant-violation recovery.
func (n *NPC) Clone() *NPC {
	out := *n
	out.Traits = append([]string(nil), n.Traits...)
	out.Loot = make([]*item.Item, 0, len(n.Loot))
	for _, it := range n.Loot {
		out.Loot = append(out.Loot, it.Clone())
	}
	if n.Effects != nil {
		out.Effects = n.Effects.Clone()
	}
	return &out
}

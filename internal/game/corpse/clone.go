package corpse

import "github.com/karstgames/undercroft/internal/game/item"

// Clone returns a deep copy of the corpse with the same ID.
func (c *Corpse) Clone() *Corpse {
	out := *c
	out.Witnesses = append([]string(nil), c.Witnesses...)
	out.Loot = make([]*item.Item, 0, len(c.Loot))
	for _, it := range c.Loot {
		out.Loot = append(out.Loot, it.Clone())
	}
	out.Possessions = make([]*item.Item, 0, len(c.Possessions))
	for _, it := range c.Possessions {
		out.Possessions = append(out.Possessions, it.Clone())
	}
	if c.searchedBy != nil {
		out.searchedBy = make(map[string]bool, len(c.searchedBy))
		for k, v := range c.searchedBy {
			out.searchedBy[k] = v
		}
	}
	return &out
}

// Clone returns a deep copy of the manager's registry sharing the same
// possession table, randomness source, and logger. Used by the engine to
// snapshot pre-turn state for invariant-violation recovery.
func (m *Manager) Clone() *Manager {
	out := &Manager{
		registry:    make(map[string]*Corpse, len(m.registry)),
		possessions: m.possessions,
		src:         m.src,
		logger:      m.logger,
	}
	for id, c := range m.registry {
		out.registry[id] = c.Clone()
	}
	return out
}

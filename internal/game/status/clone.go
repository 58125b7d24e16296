package status

// Clone returns a deep copy of the ledger. Used by the engine to snapshot
// pre-turn state for invariant-violation recovery.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{effects: make([]*Effect, 0, len(l.effects))}
	for _, e := range l.effects {
		copied := *e
		out.effects = append(out.effects, &copied)
	}
	return out
}

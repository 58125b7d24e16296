package rapport

// Clone returns a deep copy of the ledger. Used by the engine to snapshot
// pre-turn state for invariant-violation recovery.
func (l *Ledger) Clone() *Ledger {
	out := NewLedger()
	for key, rec := range l.records {
		copied := *rec
		copied.History = append([]Event(nil), rec.History...)
		out.records[key] = &copied
	}
	return out
}

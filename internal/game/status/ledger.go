// Package status provides the timed buff/debuff ledger for players and NPCs.
package status

import (
	"math"
	"strings"
)

// PermanentDuration marks an effect that never expires; Tick does not
// decrement it.
const PermanentDuration = -1

// Effect is one timed buff or debuff.
type Effect struct {
	// ID uniquely identifies this effect instance.
	ID string
	// Name is the display name; Add matches existing effects by it,
	// case-insensitively.
	Name string
	// Duration is the remaining turn count, or PermanentDuration.
	Duration int
	// DamagePerTurn is subtracted from the bearer's health each tick.
	DamagePerTurn int
	// HealPerTurn is added to the bearer's health each tick.
	HealPerTurn int
	// OutgoingModifier multiplies damage the bearer deals (1.2 = +20%).
	// 0 means no modifier.
	OutgoingModifier float64
	// IncomingModifier multiplies damage the bearer takes. 0 means no modifier.
	IncomingModifier float64
}

// TickOutcome reports what one effect did during a single tick.
type TickOutcome struct {
	// Name is the effect's display name.
	Name string
	// Damage is the per-turn damage the effect dealt this tick.
	Damage int
	// Heal is the per-turn healing the effect applied this tick.
	Heal int
	// Expired is true when the effect's duration reached 0 and it was removed.
	Expired bool
}

// Ledger tracks the active effects on one bearer, in insertion order.
// It is not safe for concurrent use; the owning engine serialises access.
type Ledger struct {
	effects []*Effect
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add applies an effect. If an active effect with the same name exists
// (case-insensitive), its duration becomes max(existing, incoming) and its
// effect parameters are fully replaced by the incoming payload (last-applied
// wins). Otherwise the effect is appended as new.
//
// A permanent duration on either side wins over any finite duration.
//
// Precondition: e must not be nil and e.Name must not be empty.
// Postcondition: exactly one active effect carries e.Name.
func (l *Ledger) Add(e *Effect) {
	for _, existing := range l.effects {
		if !strings.EqualFold(existing.Name, e.Name) {
			continue
		}
		duration := maxDuration(existing.Duration, e.Duration)
		id := existing.ID
		*existing = *e
		existing.ID = id
		existing.Duration = duration
		return
	}
	l.effects = append(l.effects, e)
}

// Remove deletes the first active effect matching name (case-insensitive).
// If no effect matches, Remove is a no-op.
//
// Postcondition: Has(name) is false unless name was applied more than once
// under distinct ids, which Add prevents.
func (l *Ledger) Remove(name string) {
	for i, e := range l.effects {
		if strings.EqualFold(e.Name, name) {
			l.effects = append(l.effects[:i], l.effects[i+1:]...)
			return
		}
	}
}

// Has reports whether an effect with the given name is active.
func (l *Ledger) Has(name string) bool {
	for _, e := range l.effects {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

// Get returns the active effect with the given name, or (nil, false).
func (l *Ledger) Get(name string) (*Effect, bool) {
	for _, e := range l.effects {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return nil, false
}

// All returns the active effects in insertion order. The slice is a new
// allocation but the pointed-to effects are shared; callers must not mutate
// them.
func (l *Ledger) All() []*Effect {
	out := make([]*Effect, 0, len(l.effects))
	out = append(out, l.effects...)
	return out
}

// Len returns the number of active effects.
func (l *Ledger) Len() int {
	return len(l.effects)
}

// Tick advances every active effect by one turn, in insertion order. For each
// effect it reports the per-turn damage and healing to apply, then decrements
// the duration unless it is PermanentDuration. Effects whose duration reaches
// exactly 0 are removed and reported as expired.
//
// The caller applies the numeric outcomes to the bearer; each effect's
// contribution is independent, so list order determines log ordering only.
//
// Postcondition: no remaining effect has Duration == 0.
func (l *Ledger) Tick() []TickOutcome {
	outcomes := make([]TickOutcome, 0, len(l.effects))
	kept := l.effects[:0]
	for _, e := range l.effects {
		out := TickOutcome{Name: e.Name, Damage: e.DamagePerTurn, Heal: e.HealPerTurn}
		if e.Duration != PermanentDuration {
			e.Duration--
			if e.Duration <= 0 {
				out.Expired = true
			}
		}
		if !out.Expired {
			kept = append(kept, e)
		}
		outcomes = append(outcomes, out)
	}
	l.effects = kept
	return outcomes
}

// ModifyOutgoing applies every active outgoing-damage modifier to base,
// sequentially, flooring to an integer after each individual multiplication.
//
// Postcondition: Returns >= 0 for base >= 0 and non-negative modifiers.
func (l *Ledger) ModifyOutgoing(base int) int {
	result := base
	for _, e := range l.effects {
		if e.OutgoingModifier > 0 {
			result = int(math.Floor(float64(result) * e.OutgoingModifier))
		}
	}
	return result
}

// ModifyIncoming applies every active damage-taken modifier to base with the
// same sequential multiply-and-floor rule as ModifyOutgoing.
func (l *Ledger) ModifyIncoming(base int) int {
	result := base
	for _, e := range l.effects {
		if e.IncomingModifier > 0 {
			result = int(math.Floor(float64(result) * e.IncomingModifier))
		}
	}
	return result
}

func maxDuration(a, b int) int {
	if a == PermanentDuration || b == PermanentDuration {
		return PermanentDuration
	}
	if a > b {
		return a
	}
	return b
}

// Package rapport tracks numeric relationship scores and bounded event
// memories between NPCs and actors.
package rapport

import (
	"time"
)

// Level bounds and category thresholds.
const (
	MinLevel = -100
	MaxLevel = 100
)

// Category names for rapport levels, from devoted down to mortal enemy.
const (
	CategoryDevoted     = "devoted"
	CategoryCloseFriend = "close-friend"
	CategoryAlly        = "ally"
	CategoryFriendly    = "friendly"
	CategoryNeutral     = "neutral"
	CategoryUnfriendly  = "unfriendly"
	CategoryHostile     = "hostile"
	CategoryEnemy       = "enemy"
	CategoryMortalEnemy = "mortal-enemy"
)

// significantDelta is the minimum |delta| recorded in the event history.
const significantDelta = 10

// historyCap bounds the significant-event list; the oldest entry is dropped
// once the cap is exceeded.
const historyCap = 20

// Event is one significant interaction remembered by an NPC.
type Event struct {
	// Delta is the rapport change that made the event significant.
	Delta int
	// Reason is a short tag describing the interaction.
	Reason string
	// At is when the interaction happened, in game time.
	At time.Time
}

// Record is the relationship state for one (npc, actor) pair.
type Record struct {
	// NPCID identifies the remembering NPC.
	NPCID string
	// ActorID identifies the remembered actor.
	ActorID string
	// Level is the rapport score, always in [MinLevel, MaxLevel].
	Level int
	// Category is derived from Level by fixed thresholds.
	Category string
	// LastInteraction is the time of the most recent update.
	LastInteraction time.Time
	// History is the bounded significant-event list, oldest first.
	History []Event
}

// CategoryFor maps a rapport level to its named category.
//
// Precondition: level should be in [MinLevel, MaxLevel] for a meaningful result.
// Postcondition: Returns one of the Category constants; boundaries are exact
// (80 is devoted, 79 is close-friend).
func CategoryFor(level int) string {
	switch {
	case level >= 80:
		return CategoryDevoted
	case level >= 40:
		return CategoryCloseFriend
	case level >= 20:
		return CategoryAlly
	case level >= 5:
		return CategoryFriendly
	case level >= -4:
		return CategoryNeutral
	case level >= -19:
		return CategoryUnfriendly
	case level >= -39:
		return CategoryHostile
	case level >= -79:
		return CategoryEnemy
	default:
		return CategoryMortalEnemy
	}
}

type pairKey struct {
	npcID   string
	actorID string
}

// Ledger tracks rapport records for all (npc, actor) pairs in one session.
// It is not safe for concurrent use; the owning engine serialises access.
type Ledger struct {
	records map[pairKey]*Record
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[pairKey]*Record)}
}

// Update applies delta to the (npcID, actorID) rapport, clamping the result
// to [MinLevel, MaxLevel], recomputing the category, and stamping the
// interaction time. Records are created lazily; a zero delta on an unknown
// pair creates nothing. Deltas with |delta| >= 10 are remembered in the
// bounded history under the given reason.
//
// Precondition: npcID and actorID must be non-empty.
// Postcondition: Level(npcID, actorID) is in [MinLevel, MaxLevel];
// len(History) <= 20.
func (l *Ledger) Update(npcID, actorID string, delta int, reason string, now time.Time) *Record {
	key := pairKey{npcID: npcID, actorID: actorID}
	rec, ok := l.records[key]
	if !ok {
		if delta == 0 {
			return nil
		}
		rec = &Record{NPCID: npcID, ActorID: actorID, Category: CategoryNeutral}
		l.records[key] = rec
	}

	rec.Level = clamp(rec.Level + delta)
	rec.Category = CategoryFor(rec.Level)
	rec.LastInteraction = now

	if delta >= significantDelta || delta <= -significantDelta {
		rec.History = append(rec.History, Event{Delta: delta, Reason: reason, At: now})
		if len(rec.History) > historyCap {
			rec.History = rec.History[len(rec.History)-historyCap:]
		}
	}
	return rec
}

// Level returns the rapport score for the pair, or 0 when no record exists.
func (l *Ledger) Level(npcID, actorID string) int {
	if rec, ok := l.records[pairKey{npcID: npcID, actorID: actorID}]; ok {
		return rec.Level
	}
	return 0
}

// Category returns the derived category for the pair, or neutral when no
// record exists.
func (l *Ledger) Category(npcID, actorID string) string {
	if rec, ok := l.records[pairKey{npcID: npcID, actorID: actorID}]; ok {
		return rec.Category
	}
	return CategoryNeutral
}

// Record returns the full record for the pair, or (nil, false) when no
// record exists.
func (l *Ledger) Record(npcID, actorID string) (*Record, bool) {
	rec, ok := l.records[pairKey{npcID: npcID, actorID: actorID}]
	return rec, ok
}

// Len returns the number of tracked pairs.
func (l *Ledger) Len() int {
	return len(l.records)
}

func clamp(level int) int {
	if level > MaxLevel {
		return MaxLevel
	}
	if level < MinLevel {
		return MinLevel
	}
	return level
}

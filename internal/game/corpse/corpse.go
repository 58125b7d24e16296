// Package corpse manages dead-body records: creation snapshots, decomposition
// over game time, and loot gating.
package corpse

import (
	"time"

	"github.com/karstgames/undercroft/internal/game/item"
)

// Condition is the decomposition stage of a corpse.
type Condition string

const (
	// ConditionFresh covers the first two hours after death.
	ConditionFresh Condition = "FRESH"
	// ConditionRecentlyDead covers 2–24 hours after death.
	ConditionRecentlyDead Condition = "RECENTLY_DEAD"
	// ConditionDecomposing covers 24–168 hours after death.
	ConditionDecomposing Condition = "DECOMPOSING"
	// ConditionSkeletal covers everything past a week.
	ConditionSkeletal Condition = "SKELETAL"
)

// MaxDecomposition is the level at which a corpse is removed from the world.
const MaxDecomposition = 10

// searchableLimit is the highest decomposition level at which a corpse can
// still be searched.
const searchableLimit = 7

// Corpse is the persistent record of a dead NPC.
//
// Invariant: Decomposition is monotonically non-decreasing until removal.
type Corpse struct {
	// ID uniquely identifies this corpse.
	ID string
	// NPCID is the originating NPC's instance id.
	NPCID string
	// Name is the dead NPC's display name.
	Name string
	// Occupation is copied from the NPC for possession narration.
	Occupation string
	// Condition is the current decomposition stage.
	Condition Condition
	// TimeOfDeath is the game time of death.
	TimeOfDeath time.Time
	// Cause is a short tag describing what killed the NPC.
	Cause string
	// Decomposition is the decay level in [0, MaxDecomposition].
	Decomposition int
	// Searchable is false once decomposition has gone too far.
	Searchable bool
	// Witnesses lists the humanoid NPC ids present at the moment of death.
	Witnesses []string
	// Loot is the snapshot of the NPC's carried loot.
	Loot []*item.Item
	// Possessions is the procedurally derived personal effects snapshot.
	Possessions []*item.Item
	// searchedBy records actor ids that already searched this corpse.
	searchedBy map[string]bool
}

// SearchedBy reports whether the actor already searched this corpse.
func (c *Corpse) SearchedBy(actorID string) bool {
	return c.searchedBy[actorID]
}

// markSearched records the actor as having searched this corpse.
func (c *Corpse) markSearched(actorID string) {
	if c.searchedBy == nil {
		c.searchedBy = make(map[string]bool)
	}
	c.searchedBy[actorID] = true
}

// conditionForElapsed maps elapsed time since death to the condition and
// decomposition level bands. Levels grow proportionally to elapsed time
// within each band.
//
// Postcondition: Returned level is in [0, MaxDecomposition] and is
// non-decreasing in elapsed.
func conditionForElapsed(elapsed time.Duration) (Condition, int) {
	hours := elapsed.Hours()
	switch {
	case hours <= 2:
		return ConditionFresh, 0
	case hours <= 24:
		level := int(2 * (hours - 2) / 22)
		if level > 2 {
			level = 2
		}
		return ConditionRecentlyDead, level
	case hours <= 168:
		level := 2 + int(5*(hours-24)/144)
		if level > 7 {
			level = 7
		}
		return ConditionDecomposing, level
	default:
		level := 7 + int(3*(hours-168)/168)
		if level > MaxDecomposition {
			level = MaxDecomposition
		}
		return ConditionSkeletal, level
	}
}

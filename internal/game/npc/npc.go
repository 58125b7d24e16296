// Package npc provides the live NPC entity model: capability kinds,
// disposition tags, personality traits, and trait-conditioned dialogue.
package npc

import (
	"strings"

	"github.com/google/uuid"

	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/status"
)

// Kind is the explicit capability tag distinguishing simple hostiles from
// humanoids with social state. It is carried on the entity rather than
// inferred from which optional fields happen to be set.
type Kind string

const (
	// KindHostile marks a simple monster: no occupation, traits, or rapport.
	KindHostile Kind = "hostile"
	// KindHumanoid marks an NPC with social fields (occupation, traits,
	// emotional state).
	KindHumanoid Kind = "humanoid"
)

// Disposition tags describing an NPC's standing attitude.
const (
	DispositionHostile  = "hostile"
	DispositionNeutral  = "neutral"
	DispositionFriendly = "friendly"
	DispositionFearful  = "fearful"
)

// NPC is a live entity occupying a room.
type NPC struct {
	// ID uniquely identifies this instance.
	ID string
	// Name is the display name.
	Name string
	// Kind is the capability tag: KindHostile or KindHumanoid.
	Kind Kind
	// Health is the current hit points in [0, MaxHealth].
	Health int
	// MaxHealth is the maximum hit points.
	MaxHealth int
	// BaseDamage is the flat damage dealt per counter-attack.
	BaseDamage int
	// Disposition is the standing attitude tag.
	Disposition string
	// Surrendered is true once the NPC has yielded; terminal for the encounter.
	Surrendered bool
	// Loot is dropped into the room or snapshotted onto the corpse on death.
	Loot []*item.Item
	// Effects tracks timed buffs/debuffs on this NPC.
	Effects *status.Ledger

	// Humanoid-only fields; zero-valued for KindHostile.

	// Occupation keys the procedural possessions table (e.g. "smith").
	Occupation string
	// Traits are personality tags ("proud", "cowardly", "cautious",
	// "pragmatic", "brave").
	Traits []string
	// Fear is the emotional-intensity scalar in [0, 1].
	Fear float64
}

// NewHostile creates a simple hostile monster.
//
// Precondition: name must be non-empty; maxHealth >= 1; baseDamage >= 0.
// Postcondition: Health == MaxHealth; Kind == KindHostile.
func NewHostile(name string, maxHealth, baseDamage int) *NPC {
	return &NPC{
		ID:          uuid.New().String(),
		Name:        name,
		Kind:        KindHostile,
		Health:      maxHealth,
		MaxHealth:   maxHealth,
		BaseDamage:  baseDamage,
		Disposition: DispositionHostile,
		Effects:     status.NewLedger(),
	}
}

// NewHumanoid creates a humanoid NPC with social fields.
//
// Precondition: name must be non-empty; maxHealth >= 1.
// Postcondition: Health == MaxHealth; Kind == KindHumanoid.
func NewHumanoid(name, occupation, disposition string, maxHealth, baseDamage int, traits ...string) *NPC {
	return &NPC{
		ID:          uuid.New().String(),
		Name:        name,
		Kind:        KindHumanoid,
		Health:      maxHealth,
		MaxHealth:   maxHealth,
		BaseDamage:  baseDamage,
		Disposition: disposition,
		Occupation:  occupation,
		Traits:      traits,
		Effects:     status.NewLedger(),
	}
}

// IsDead reports whether the NPC has zero or fewer hit points.
func (n *NPC) IsDead() bool {
	return n.Health <= 0
}

// HealthFraction returns current health as a fraction of maximum.
//
// Postcondition: Returns a value in [0, 1] for a well-formed NPC.
func (n *NPC) HealthFraction() float64 {
	if n.MaxHealth <= 0 {
		return 0
	}
	return float64(n.Health) / float64(n.MaxHealth)
}

// HasTrait reports whether the NPC carries the given personality trait,
// ignoring case.
func (n *NPC) HasTrait(trait string) bool {
	for _, t := range n.Traits {
		if strings.EqualFold(t, trait) {
			return true
		}
	}
	return false
}

// Matches reports whether the NPC matches the given name: exact
// case-insensitive match, or case-insensitive substring match.
func (n *NPC) Matches(name string) bool {
	if name == "" {
		return false
	}
	have := strings.ToLower(n.Name)
	want := strings.ToLower(name)
	return have == want || strings.Contains(have, want)
}

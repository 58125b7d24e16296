package npc

import "github.com/karstgames/undercroft/internal/collab"

// FromSpec builds a live NPC from a collaborator NPC spec, defaulting
// malformed numeric fields rather than rejecting them.
//
// Postcondition: MaxHealth >= 1; Health == MaxHealth; Kind is valid.
func FromSpec(spec collab.NPCSpec) *NPC {
	maxHealth := spec.MaxHealth
	if maxHealth < 1 {
		maxHealth = 10
	}
	baseDamage := spec.BaseDamage
	if baseDamage < 0 {
		baseDamage = 1
	}
	if spec.Kind == string(KindHumanoid) {
		disposition := spec.Disposition
		if disposition == "" {
			disposition = DispositionNeutral
		}
		return NewHumanoid(spec.Name, spec.Occupation, disposition, maxHealth, baseDamage, spec.Traits...)
	}
	return NewHostile(spec.Name, maxHealth, baseDamage)
}

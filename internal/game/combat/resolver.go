// Package combat resolves attacks and drives the NPC disposition machine:
// an engaged NPC fights by default and may retreat or surrender as its
// health falls.
package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/npc"
	"github.com/karstgames/undercroft/internal/game/rapport"
	"github.com/karstgames/undercroft/internal/game/status"
	"github.com/karstgames/undercroft/internal/game/world"
)

// Disposition thresholds. Surrender is evaluated before retreat: it
// represents the more desperate state.
const (
	// surrenderFraction is the health fraction below which any non-proud NPC yields.
	surrenderFraction = 0.2
	// surrenderOutnumberedFraction is the softer threshold for outnumbered
	// cowardly or pragmatic NPCs.
	surrenderOutnumberedFraction = 0.35
	// retreatFraction is the strict minimum below which any NPC tries to flee.
	retreatFraction = 0.15
	// retreatNervousFraction is the softer threshold for cowardly or cautious
	// NPCs and for high fear.
	retreatNervousFraction = 0.3
	// fearRetreatThreshold is the emotional intensity at which fear alone
	// drives retreat at the nervous threshold.
	fearRetreatThreshold = 0.7
	// surrenderFear is the emotional intensity set on a surrendering NPC.
	surrenderFear = 0.9
	// surrenderRapportDelta is recorded against the attacker on surrender.
	surrenderRapportDelta = -15
	// minKillXP floors the experience granted for any kill.
	minKillXP = 5
)

// Retreat success base probabilities, scaled by current health fraction.
const (
	retreatBaseMultiExit  = 0.7
	retreatBaseSingleExit = 0.3
)

// Outcome classifies what the defender did after taking a hit.
type Outcome string

const (
	// OutcomeDefeated means the target died from the attack.
	OutcomeDefeated Outcome = "defeated"
	// OutcomeSurrendered means the target yielded; terminal for the encounter.
	OutcomeSurrendered Outcome = "surrendered"
	// OutcomeFled means the target retreated out of the room.
	OutcomeFled Outcome = "fled"
	// OutcomeRetreatBlocked means a retreat attempt failed; the target stays
	// and fights, re-evaluating on the next attack.
	OutcomeRetreatBlocked Outcome = "retreat-blocked"
	// OutcomeCountered means the target stood and struck back.
	OutcomeCountered Outcome = "countered"
	// OutcomePassive means the target had already surrendered and did nothing.
	OutcomePassive Outcome = "passive"
)

// Attacker is the attacking side's view passed into the resolver. Using a
// local struct keeps the resolver free of the engine's player type.
type Attacker struct {
	// ID identifies the attacker for rapport bookkeeping.
	ID string
	// BaseDamage is the unarmed melee damage.
	BaseDamage int
	// WeaponBonus is the equipped weapon's damage bonus, 0 when unarmed.
	WeaponBonus int
	// Wielding is true when a weapon is equipped; it doubles threat weight.
	Wielding bool
	// Effects supplies outgoing and incoming damage modifiers.
	Effects *status.Ledger
}

// threatWeight returns the attacker's weight for outnumbering checks.
func (a Attacker) threatWeight() int {
	if a.Wielding {
		return 2
	}
	return 1
}

// Result holds the outcome of one resolved attack.
type Result struct {
	// TargetID and TargetName identify the defender.
	TargetID   string
	TargetName string
	// Damage is the final damage dealt after all modifiers.
	Damage int
	// Outcome classifies the defender's response.
	Outcome Outcome
	// XP is the experience awarded; non-zero only on defeat.
	XP int
	// CounterDamage is the damage the defender dealt back; non-zero only when
	// Outcome is OutcomeCountered.
	CounterDamage int
	// SurrenderLine is the defender's yielded dialogue; non-empty only on surrender.
	SurrenderLine string
}

// Resolver computes attack damage and evaluates NPC disposition.
// It is not safe for concurrent use; the owning engine serialises access.
type Resolver struct {
	src      dice.Source
	dialogue *npc.DialogueTable
	logger   *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: src, dialogue, and logger must not be nil.
func NewResolver(src dice.Source, dialogue *npc.DialogueTable, logger *zap.Logger) *Resolver {
	return &Resolver{src: src, dialogue: dialogue, logger: logger}
}

// Attack resolves a single attack from attacker against target in room.
// Disposition is evaluated exactly once per attack: a blocked retreat leaves
// the target fighting and is not re-evaluated until the next Attack call.
//
// On defeat the target's health is exactly 0 and XP is granted proportional
// to its maximum health, floored at minKillXP; corpse creation and loot drop
// are the caller's responsibility. On surrender the target stops generating
// counter-attacks for the rest of the encounter and a rapport penalty is
// recorded against the attacker.
//
// Precondition: target must be alive and present in room; ledger must not be nil.
// Postcondition: target.Health >= 0; Result.Outcome is one of the Outcome constants.
func (r *Resolver) Attack(attacker Attacker, target *npc.NPC, room *world.Room, ledger *rapport.Ledger, now time.Time) Result {
	result := Result{TargetID: target.ID, TargetName: target.Name}

	damage := attacker.BaseDamage + attacker.WeaponBonus
	damage = attacker.Effects.ModifyOutgoing(damage)
	damage = target.Effects.ModifyIncoming(damage)
	result.Damage = damage

	if damage >= target.Health {
		target.Health = 0
		result.Outcome = OutcomeDefeated
		result.XP = killXP(target.MaxHealth)
		r.logger.Debug("target defeated",
			zap.String("target", target.Name),
			zap.Int("damage", damage),
			zap.Int("xp", result.XP),
		)
		return result
	}

	target.Health -= damage

	if target.Surrendered {
		result.Outcome = OutcomePassive
		return result
	}

	outnumbered := r.isOutnumbered(attacker, target, room, ledger)
	fraction := target.HealthFraction()

	switch {
	case r.shouldSurrender(target, fraction, outnumbered):
		target.Surrendered = true
		target.Disposition = npc.DispositionFearful
		target.Fear = surrenderFear
		ledger.Update(target.ID, attacker.ID, surrenderRapportDelta, "forced surrender", now)
		result.Outcome = OutcomeSurrendered
		result.SurrenderLine = r.dialogue.SurrenderLine(target, r.src)

	case r.shouldRetreat(target, fraction, outnumbered):
		if r.retreatSucceeds(target, room, fraction) {
			room.RemoveNPC(target.ID)
			result.Outcome = OutcomeFled
		} else {
			// Blocked: stays in the fight, re-evaluated on the next attack.
			result.Outcome = OutcomeRetreatBlocked
		}

	default:
		counter := target.Effects.ModifyOutgoing(target.BaseDamage)
		counter = attacker.Effects.ModifyIncoming(counter)
		result.Outcome = OutcomeCountered
		result.CounterDamage = counter
	}

	return result
}

// shouldSurrender evaluates the surrender conditions.
func (r *Resolver) shouldSurrender(target *npc.NPC, fraction float64, outnumbered bool) bool {
	if target.Kind != npc.KindHumanoid {
		return false
	}
	if fraction < surrenderFraction && !target.HasTrait("proud") {
		return true
	}
	if outnumbered && fraction < surrenderOutnumberedFraction &&
		(target.HasTrait("cowardly") || target.HasTrait("pragmatic")) {
		return true
	}
	return false
}

// shouldRetreat evaluates the retreat conditions.
func (r *Resolver) shouldRetreat(target *npc.NPC, fraction float64, outnumbered bool) bool {
	if fraction < retreatFraction {
		return true
	}
	if fraction < retreatNervousFraction &&
		(target.HasTrait("cowardly") || target.HasTrait("cautious") || target.Fear >= fearRetreatThreshold) {
		return true
	}
	if outnumbered && !target.HasTrait("brave") {
		return true
	}
	return false
}

// retreatSucceeds rolls the escape attempt: base probability depends on the
// room having more than one exit, scaled by the target's health fraction.
func (r *Resolver) retreatSucceeds(target *npc.NPC, room *world.Room, fraction float64) bool {
	base := retreatBaseSingleExit
	if room.UnlockedExitCount() > 1 {
		base = retreatBaseMultiExit
	}
	return dice.Chance(r.src, base*fraction)
}

// isOutnumbered compares the attacker's threat weight against the target's
// side: the target itself plus every ally in the room. Allies share the
// target's disposition tag or hold a positive rapport link to it.
func (r *Resolver) isOutnumbered(attacker Attacker, target *npc.NPC, room *world.Room, ledger *rapport.Ledger) bool {
	allies := 0
	for _, other := range room.NPCs {
		if other.ID == target.ID || other.IsDead() {
			continue
		}
		if other.Disposition == target.Disposition || ledger.Level(target.ID, other.ID) > 0 {
			allies++
		}
	}
	return attacker.threatWeight() > allies+1
}

// killXP returns the experience for killing a target with the given maximum
// health, floored so no kill is worthless.
func killXP(maxHealth int) int {
	xp := maxHealth / 2
	if xp < minKillXP {
		xp = minKillXP
	}
	return xp
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/game/combat"
	"github.com/karstgames/undercroft/internal/game/corpse"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
	"github.com/karstgames/undercroft/internal/game/rapport"
	"github.com/karstgames/undercroft/internal/game/script"
	"github.com/karstgames/undercroft/internal/game/status"
	"github.com/karstgames/undercroft/internal/game/world"
)

// Engine-level sentinel errors.
var (
	// ErrGameOver means the session has ended and accepts no more turns.
	ErrGameOver = errors.New("game is over")
	// ErrTurnAborted means an invariant violation forced a full rollback of
	// the turn; state is exactly as it was before the turn began.
	ErrTurnAborted = errors.New("turn aborted")
)

// confusedNarrative is shown in place of a turn that had to be rolled back.
const confusedNarrative = "You feel briefly confused, as though the moment slipped away from you. Nothing seems to have changed."

// Experience reward defaults, overridable through Deps.
const (
	DefaultExplorationXP = 10
	DefaultCraftingXP    = 15
)

// witnessedKillDelta and witnessedLootDelta are recorded against the player
// on humanoid witnesses of a kill or a corpse search.
const (
	witnessedKillDelta = -25
	witnessedLootDelta = -5
)

// Deps bundles the engine's collaborators and shared services. Nil
// collaborators fall back to the deterministic Static implementations; a nil
// Dice defaults to a time-seeded source.
type Deps struct {
	Interpreter collab.Interpreter
	Generator   collab.RoomGenerator
	Oracle      collab.CraftingOracle
	Narrator    collab.CorpseNarrator

	Dice     dice.Source
	Dialogue *npc.DialogueTable
	Hooks    *script.Hooks
	Logger   *zap.Logger

	// ExplorationXP is granted on a room's first visit; 0 means the default.
	ExplorationXP int
	// CraftingXP is granted on a successful craft; 0 means the default.
	CraftingXP int
}

func (d *Deps) fillDefaults() {
	if d.Interpreter == nil {
		d.Interpreter = collab.StaticInterpreter{}
	}
	if d.Generator == nil {
		d.Generator = collab.StaticRoomGenerator{}
	}
	if d.Oracle == nil {
		d.Oracle = collab.StaticCraftingOracle{}
	}
	if d.Narrator == nil {
		d.Narrator = collab.StaticCorpseNarrator{}
	}
	if d.Dice == nil {
		d.Dice = dice.NewSource(time.Now().UnixNano())
	}
	if d.Dialogue == nil {
		d.Dialogue = npc.DefaultDialogue()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.ExplorationXP == 0 {
		d.ExplorationXP = DefaultExplorationXP
	}
	if d.CraftingXP == 0 {
		d.CraftingXP = DefaultCraftingXP
	}
}

// Engine is the turn coordinator: it owns one State exclusively, obtains a
// turn's intents from the Narrative Interpreter, applies them in the fixed
// sub-step order, and advances the turn clock exactly once per turn.
//
// Engine is not safe for concurrent use; callers serialise turns per session.
type Engine struct {
	state    *State
	rapport  *rapport.Ledger
	corpses  *corpse.Manager
	resolver *combat.Resolver
	deps     Deps
	fallback collab.StaticInterpreter

	// advanced guards the single-tick-per-turn invariant within ProcessTurn.
	advanced bool
}

// New creates an Engine owning the given state.
//
// Precondition: state must not be nil; possessions must not be nil.
func New(state *State, possessions *corpse.PossessionTable, deps Deps) *Engine {
	deps.fillDefaults()
	return &Engine{
		state:    state,
		rapport:  rapport.NewLedger(),
		corpses:  corpse.NewManager(possessions, deps.Dice, deps.Logger),
		resolver: combat.NewResolver(deps.Dice, deps.Dialogue, deps.Logger),
		deps:     deps,
	}
}

// State returns the engine's owned state. Callers must not mutate it while a
// turn is in flight.
func (e *Engine) State() *State { return e.state }

// Rapport returns the engine's relationship ledger.
func (e *Engine) Rapport() *rapport.Ledger { return e.rapport }

// Corpses returns the engine's corpse manager.
func (e *Engine) Corpses() *corpse.Manager { return e.corpses }

// TurnResult is the user-visible outcome of one processed turn.
type TurnResult struct {
	// Narrative is the interpreter's (or fallback's) narration for the turn.
	Narrative string
	// Events holds every event logged during this turn, in order.
	Events []Event
	// Turn is the turn counter after processing.
	Turn int
	// Over is true when the game ended during this turn.
	Over bool
	// Aborted is true when an invariant violation rolled the turn back.
	Aborted bool
}

// ProcessTurn runs one full turn for the given player input: interpret,
// apply intents, then advance the clock and tick periodic effects exactly
// once. The narrative is always logged and the turn always advances, except
// on an invariant violation, which rolls state back and leaves the turn
// counter untouched.
//
// Precondition: the game must not be over.
// Postcondition: on a normal return the turn counter advanced by exactly 1;
// on ErrTurnAborted the state is identical to the pre-call state apart from
// the appended narrative events.
func (e *Engine) ProcessTurn(ctx context.Context, input string) (*TurnResult, error) {
	if e.state.Over {
		return nil, ErrGameOver
	}
	e.advanced = false
	mark := len(e.state.Events)

	interp := e.interpret(ctx, input)
	if interp.Narrative != "" {
		e.state.logEvent(EventNarrative, "%s", interp.Narrative)
	}

	if interp.Success {
		if err := e.applyIntents(ctx, interp.Intents); err != nil {
			e.state.logEvent(EventNarrative, "%s", confusedNarrative)
			return &TurnResult{
				Narrative: confusedNarrative,
				Events:    append([]Event(nil), e.state.Events[mark:]...),
				Turn:      e.state.Turn,
				Aborted:   true,
			}, err
		}
	}

	e.advanceTurn()

	return &TurnResult{
		Narrative: interp.Narrative,
		Events:    append([]Event(nil), e.state.Events[mark:]...),
		Turn:      e.state.Turn,
		Over:      e.state.Over,
	}, nil
}

// interpret asks the Narrative Interpreter for the turn's intents, degrading
// to the deterministic static interpreter on failure.
func (e *Engine) interpret(ctx context.Context, input string) collab.InterpretResult {
	req := e.buildInterpretRequest(input)
	res, err := e.deps.Interpreter.Interpret(ctx, req)
	if err == nil {
		return res
	}
	e.deps.Logger.Warn("interpreter failed, using static fallback", zap.Error(err))
	e.state.logEvent(EventSystem, "The narrator falters; your words are taken at face value.")
	res, err = e.fallback.Interpret(ctx, req)
	if err != nil {
		return collab.InterpretResult{Narrative: "Nothing happens."}
	}
	return res
}

func (e *Engine) buildInterpretRequest(input string) collab.InterpretRequest {
	req := collab.InterpretRequest{Input: input}

	p := e.state.Player
	req.Player = collab.PlayerView{
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Level:     p.Level,
	}
	for _, it := range p.Inventory {
		req.Player.Inventory = append(req.Player.Inventory, it.Name)
	}
	for _, eff := range p.Effects.All() {
		req.Player.Statuses = append(req.Player.Statuses, eff.Name)
	}

	room, ok := e.state.CurrentRoom()
	if !ok {
		return req
	}
	req.Room = collab.RoomView{Title: room.Title, Description: room.Description}
	for _, it := range room.Items {
		req.Room.Items = append(req.Room.Items, it.Name)
	}
	for _, n := range room.NPCs {
		if !n.IsDead() {
			req.Room.NPCs = append(req.Room.NPCs, n.Name)
		}
	}
	for _, id := range room.CorpseIDs {
		if c, ok := e.corpses.Get(id); ok {
			req.Room.Corpses = append(req.Room.Corpses, c.Name)
		}
	}
	for _, d := range room.ExitDirections() {
		req.Room.Exits = append(req.Room.Exits, string(d))
	}
	return req
}

// snapshot holds the full pre-turn state for invariant-violation recovery.
type snapshot struct {
	state   *State
	rapport *rapport.Ledger
	corpses *corpse.Manager
}

func (e *Engine) snapshot() snapshot {
	return snapshot{
		state:   e.state.Clone(),
		rapport: e.rapport.Clone(),
		corpses: e.corpses.Clone(),
	}
}

func (e *Engine) restore(s snapshot) {
	e.state = s.state
	e.rapport = s.rapport
	e.corpses = s.corpses
}

// applyIntents applies the turn's intents in array order under rollback
// protection: a panic or a failed invariant check restores the pre-turn
// snapshot and returns ErrTurnAborted.
func (e *Engine) applyIntents(ctx context.Context, intents []collab.Intent) (err error) {
	snap := e.snapshot()
	defer func() {
		if r := recover(); r != nil {
			e.restore(snap)
			e.deps.Logger.Error("turn aborted, state restored", zap.Any("cause", r))
			err = ErrTurnAborted
		}
	}()

	for i := range intents {
		in := intents[i]
		in.Normalize()
		e.applyIntent(ctx, &in)
		if e.state.Over {
			break
		}
	}

	if verr := e.checkInvariants(snap); verr != nil {
		e.restore(snap)
		e.deps.Logger.Error("turn aborted, state restored", zap.Error(verr))
		return ErrTurnAborted
	}
	return nil
}

// checkInvariants verifies the load-bearing invariants after intent
// application: the turn counter is untouched and every health value is in
// bounds.
func (e *Engine) checkInvariants(snap snapshot) error {
	if e.state.Turn != snap.state.Turn {
		return fmt.Errorf("turn counter moved during intent application: %d -> %d", snap.state.Turn, e.state.Turn)
	}
	p := e.state.Player
	if p.Health < 0 || p.Health > p.MaxHealth {
		return fmt.Errorf("player health %d outside [0, %d]", p.Health, p.MaxHealth)
	}
	if room, ok := e.state.CurrentRoom(); ok {
		for _, n := range room.NPCs {
			if n.Health < 0 || n.Health > n.MaxHealth {
				return fmt.Errorf("npc %q health %d outside [0, %d]", n.Name, n.Health, n.MaxHealth)
			}
		}
	}
	return nil
}

// applyIntent applies one intent's sub-effects in the fixed sub-step order:
// direct deltas, item removal, item addition, pickup, use, movement, attacks,
// crafting, corpse search, then custom narrative effects. Missing references
// are silent no-ops; the rest of the intent still applies.
func (e *Engine) applyIntent(ctx context.Context, in *collab.Intent) {
	e.applyDeltas(in)
	if e.playerDied() {
		return
	}
	e.applyRemoveItems(in.RemoveItems)
	e.applyAddItems(in.AddItems)
	e.applyPickup(in.Pickup)
	e.applyUse(in.Use)
	e.applyMove(ctx, in.Move)
	e.applyAttacks(in.Attack)
	if e.playerDied() {
		return
	}
	e.applyCraft(ctx, in.Craft)
	e.applySearchCorpse(ctx, in.SearchCorpse)
	for _, line := range in.CustomEffects {
		e.state.logEvent(EventNarrative, "%s", line)
	}
}

// applyDeltas handles sub-step 1: health delta, status adds/removes, and room
// feature additions.
func (e *Engine) applyDeltas(in *collab.Intent) {
	p := e.state.Player
	if in.HealthDelta != 0 {
		p.AdjustHealth(in.HealthDelta)
		if in.HealthDelta > 0 {
			e.state.logEvent(EventStatus, "You recover %d health.", in.HealthDelta)
		} else {
			e.state.logEvent(EventStatus, "You take %d damage.", -in.HealthDelta)
		}
	}
	for _, spec := range in.AddStatuses {
		p.Effects.Add(&status.Effect{
			ID:               uuid.New().String(),
			Name:             spec.Name,
			Duration:         spec.Duration,
			DamagePerTurn:    spec.DamagePerTurn,
			HealPerTurn:      spec.HealPerTurn,
			OutgoingModifier: spec.OutgoingModifier,
			IncomingModifier: spec.IncomingModifier,
		})
		e.state.logEvent(EventStatus, "You are now %s.", strings.ToLower(spec.Name))
	}
	for _, name := range in.RemoveStatuses {
		if p.Effects.Has(name) {
			p.Effects.Remove(name)
			e.state.logEvent(EventStatus, "You are no longer %s.", strings.ToLower(name))
		}
	}
	if len(in.AddFeatures) > 0 {
		if room, ok := e.state.CurrentRoom(); ok {
			for _, tag := range in.AddFeatures {
				room.AddFeature(tag)
			}
		}
	}
}

// applyRemoveItems handles sub-step 2: inventory first, then the room floor.
func (e *Engine) applyRemoveItems(names []string) {
	room, hasRoom := e.state.CurrentRoom()
	for _, name := range names {
		if it, idx, ok := e.state.Player.FindItem(name); ok {
			e.state.Player.ConsumeAt(idx)
			e.state.logEvent(EventItem, "The %s is gone.", it.Name)
			continue
		}
		if !hasRoom {
			continue
		}
		if it, idx, ok := room.FindItem(name); ok {
			if it.Stackable && it.Quantity > 1 {
				it.Quantity--
			} else {
				room.RemoveItemAt(idx)
			}
			e.state.logEvent(EventItem, "The %s is gone.", it.Name)
		}
	}
}

// applyAddItems handles sub-step 3.
func (e *Engine) applyAddItems(specs []collab.ItemSpec) {
	for _, spec := range specs {
		it := item.FromSpec(spec)
		e.state.Player.AddItem(it)
		e.state.logEvent(EventItem, "You now have %s.", describeItem(it))
	}
}

// applyPickup handles sub-step 4, including the "all"/"everything" sentinel.
func (e *Engine) applyPickup(names []string) {
	room, ok := e.state.CurrentRoom()
	if !ok {
		return
	}
	for _, name := range names {
		if strings.EqualFold(name, "all") || strings.EqualFold(name, "everything") {
			for _, it := range room.Items {
				e.state.Player.AddItem(it)
				e.state.logEvent(EventItem, "You take %s.", describeItem(it))
			}
			room.Items = nil
			continue
		}
		if it, idx, found := room.FindItem(name); found {
			room.RemoveItemAt(idx)
			e.state.Player.AddItem(it)
			e.state.logEvent(EventItem, "You take %s.", describeItem(it))
		}
	}
}

// applyUse handles sub-step 5: healing consumables from the inventory, and
// transfer of usable room items (keys, weapons, tools) into the inventory.
// Other room-sourced uses are narration-only and left to explicit intents.
func (e *Engine) applyUse(names []string) {
	p := e.state.Player
	room, hasRoom := e.state.CurrentRoom()
	for _, name := range names {
		if it, idx, ok := p.FindItem(name); ok {
			if it.Category == item.CategoryConsumable {
				healing := int(it.NumProp("healing"))
				if healing > 0 {
					p.Heal(healing)
					e.state.logEvent(EventItem, "You use the %s and recover %d health.", it.Name, healing)
				} else {
					e.state.logEvent(EventItem, "You use the %s.", it.Name)
				}
				p.ConsumeAt(idx)
			}
			continue
		}
		if !hasRoom {
			continue
		}
		if it, idx, ok := room.FindItem(name); ok {
			if it.Category == item.CategoryWeapon || it.Category == item.CategoryQuest || it.BoolProp("key") || it.BoolProp("tool") {
				room.RemoveItemAt(idx)
				p.AddItem(it)
				e.state.logEvent(EventItem, "You take %s.", describeItem(it))
			}
		}
	}
}

// applyMove handles sub-step 6: resolve the exit through the world graph,
// relocate the player, grant first-visit exploration experience, and run the
// destination's on-enter hook.
func (e *Engine) applyMove(ctx context.Context, move string) {
	if move == "" {
		return
	}
	dir, ok := world.ParseDirection(move)
	if !ok {
		return
	}
	origin, ok := e.state.CurrentRoom()
	if !ok {
		return
	}

	result := e.state.Graph.EnsureExit(ctx, origin, dir, e.state.Player.Level, e.deps.Generator, e.deps.Dice)
	switch result.Status {
	case world.ExitMissing:
		return
	case world.ExitLocked:
		e.state.logEvent(EventMovement, "The way %s is locked.", dir)
		return
	}

	if result.Fallback {
		e.state.logEvent(EventSystem, "The passage ahead resolves into bare stone.")
	}

	dest, ok := e.state.Graph.Room(result.TargetID)
	if !ok {
		return
	}
	e.state.Player.RoomID = dest.ID
	e.state.logEvent(EventMovement, "You go %s into %s.", dir, dest.Title)

	if !dest.Visited {
		dest.Visited = true
		if gained := e.state.Player.AddXP(e.deps.ExplorationXP); gained > 0 {
			e.state.logEvent(EventMovement, "You reach level %d.", e.state.Player.Level)
		}
	}

	if dest.OnEnterHook != "" && e.deps.Hooks != nil {
		narration, err := e.deps.Hooks.RunOnEnter(dest.OnEnterHook, dest.Title, dest.Features)
		if err != nil {
			e.deps.Logger.Warn("on-enter hook failed",
				zap.String("hook", dest.OnEnterHook),
				zap.String("room", dest.ID),
				zap.Error(err),
			)
			e.state.logEvent(EventSystem, "Something stirs here, but settles again.")
		} else if narration != "" {
			e.state.logEvent(EventNarrative, "%s", narration)
		}
	}
}

// applyAttacks handles sub-step 7: one resolver call per named target.
func (e *Engine) applyAttacks(targets []string) {
	if len(targets) == 0 {
		return
	}
	room, ok := e.state.CurrentRoom()
	if !ok {
		return
	}
	p := e.state.Player
	for _, name := range targets {
		target, found := room.FindNPC(name)
		if !found {
			continue
		}
		attacker := combat.Attacker{
			ID:          p.ID,
			BaseDamage:  p.BaseDamage,
			WeaponBonus: p.WeaponBonus(),
			Wielding:    p.Wielding(),
			Effects:     p.Effects,
		}
		res := e.resolver.Attack(attacker, target, room, e.rapport, e.state.Now())

		switch res.Outcome {
		case combat.OutcomeDefeated:
			e.state.logEvent(EventCombat, "You strike %s for %d damage, killing it.", res.TargetName, res.Damage)
			c := e.corpses.OnDeath(target, room, "slain by "+p.Name, e.state.Now())
			room.RemoveNPC(target.ID)
			for _, witnessID := range c.Witnesses {
				e.rapport.Update(witnessID, p.ID, witnessedKillDelta, "witnessed killing", e.state.Now())
			}
			if gained := p.AddXP(res.XP); gained > 0 {
				e.state.logEvent(EventCombat, "You reach level %d.", p.Level)
			}

		case combat.OutcomeSurrendered:
			e.state.logEvent(EventCombat, "You strike %s for %d damage. %s surrenders: \"%s\"",
				res.TargetName, res.Damage, res.TargetName, res.SurrenderLine)

		case combat.OutcomeFled:
			e.state.logEvent(EventCombat, "You strike %s for %d damage. It flees the room.", res.TargetName, res.Damage)

		case combat.OutcomeRetreatBlocked:
			e.state.logEvent(EventCombat, "You strike %s for %d damage. It tries to flee but is cornered.", res.TargetName, res.Damage)

		case combat.OutcomePassive:
			e.state.logEvent(EventCombat, "You strike %s for %d damage. It cowers and does not fight back.", res.TargetName, res.Damage)

		case combat.OutcomeCountered:
			p.Damage(res.CounterDamage)
			e.state.logEvent(EventCombat, "You strike %s for %d damage. It strikes back for %d.",
				res.TargetName, res.Damage, res.CounterDamage)
			if e.playerDied() {
				return
			}
		}
	}
}

// applyCraft handles sub-step 8: at least two matched inventory components,
// then one Crafting Oracle call; consumed items are removed and the crafted
// item added atomically only on a non-null result.
func (e *Engine) applyCraft(ctx context.Context, components []string) {
	if len(components) == 0 {
		return
	}
	p := e.state.Player

	var indices []int
	seen := make(map[int]bool)
	for _, name := range components {
		_, idx, ok := p.FindItem(name)
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	if len(indices) < 2 {
		return
	}

	req := collab.CraftRequest{Level: p.Level}
	for _, idx := range indices {
		req.Components = append(req.Components, p.Inventory[idx].ToSpec())
	}

	crafted, err := e.deps.Oracle.Craft(ctx, req)
	if err != nil {
		e.deps.Logger.Warn("crafting oracle failed", zap.Error(err))
		e.state.logEvent(EventSystem, "The pieces refuse to come together.")
		return
	}
	if crafted == nil {
		e.state.logEvent(EventItem, "You fiddle with the pieces, but nothing comes of it.")
		return
	}

	// Remove from the highest index down so earlier indices stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, idx := range indices {
		p.RemoveAt(idx)
	}

	made := item.FromSpec(*crafted)
	p.AddItem(made)
	e.state.logEvent(EventItem, "You craft %s.", describeItem(made))
	if gained := p.AddXP(e.deps.CraftingXP); gained > 0 {
		e.state.logEvent(EventItem, "You reach level %d.", p.Level)
	}
}

// applySearchCorpse handles sub-step 9.
func (e *Engine) applySearchCorpse(ctx context.Context, names []string) {
	if len(names) == 0 {
		return
	}
	room, ok := e.state.CurrentRoom()
	if !ok {
		return
	}
	p := e.state.Player
	for _, name := range names {
		c, found := e.corpses.Find(room, name)
		if !found {
			continue
		}
		result, err := e.corpses.Search(ctx, c, p.ID, e.deps.Narrator)
		switch {
		case errors.Is(err, corpse.ErrNotSearchable):
			e.state.logEvent(EventCorpse, "The remains of %s are too far gone to search.", c.Name)
			continue
		case errors.Is(err, corpse.ErrAlreadySearched):
			e.state.logEvent(EventCorpse, "You have already searched the remains of %s.", c.Name)
			continue
		case err != nil:
			continue
		}

		if result.Narration != "" {
			e.state.logEvent(EventNarrative, "%s", result.Narration)
		}
		if len(result.Items) == 0 {
			e.state.logEvent(EventCorpse, "You find nothing on the remains of %s.", c.Name)
		}
		for _, it := range result.Items {
			p.AddItem(it)
			e.state.logEvent(EventItem, "You take %s from the remains of %s.", describeItem(it), c.Name)
		}

		for _, witness := range room.Humanoids() {
			e.rapport.Update(witness.ID, p.ID, witnessedLootDelta, "witnessed looting", e.state.Now())
		}
	}
}

// advanceTurn moves the clock forward by one turn and applies the
// once-per-turn ticks: player status effects, then corpse aging for the
// player's current room at the post-advance game time.
//
// Postcondition: the turn counter advanced by exactly 1.
func (e *Engine) advanceTurn() {
	if e.advanced {
		panic("turn advanced twice in one ProcessTurn")
	}
	e.advanced = true
	e.state.Turn++

	p := e.state.Player
	for _, out := range p.Effects.Tick() {
		if out.Damage > 0 {
			p.Damage(out.Damage)
			e.state.logEvent(EventStatus, "%s deals %d damage to you.", out.Name, out.Damage)
		}
		if out.Heal > 0 {
			p.Heal(out.Heal)
			e.state.logEvent(EventStatus, "%s restores %d health to you.", out.Name, out.Heal)
		}
		if out.Expired {
			e.state.logEvent(EventStatus, "You are no longer %s.", strings.ToLower(out.Name))
		}
	}
	if e.playerDied() {
		return
	}

	room, ok := e.state.CurrentRoom()
	if !ok {
		return
	}
	for _, ev := range e.corpses.Tick(room, e.state.Now()) {
		if ev.Removed {
			e.state.logEvent(EventCorpse, "The remains of %s have crumbled away entirely.", ev.Name)
		} else {
			e.state.logEvent(EventCorpse, "The remains of %s are now %s.", ev.Name, strings.ToLower(string(ev.Condition)))
		}
	}
}

// playerDied checks for player death, ending the game once.
func (e *Engine) playerDied() bool {
	if e.state.Player.Health > 0 {
		return false
	}
	if !e.state.Over {
		e.state.Over = true
		e.state.logEvent(EventCombat, "You have died. Your story ends here.")
	}
	return true
}

func describeItem(it *item.Item) string {
	if it.Stackable && it.Quantity > 1 {
		return fmt.Sprintf("%s (x%d)", it.Name, it.Quantity)
	}
	return it.Name
}

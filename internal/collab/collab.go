// Package collab defines the typed contracts for the engine's external
// collaborators: the Narrative Interpreter, Room Generator, Crafting Oracle,
// and Corpse Search Narrator. Payloads crossing the boundary are explicit
// tagged structs, validated before the applier trusts them.
//
// Every collaborator call is awaited to completion and has a deterministic
// local fallback; a collaborator failure never aborts a turn.
package collab

import (
	"context"
	"strings"
)

// ItemSpec describes an item crossing the collaborator boundary.
type ItemSpec struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string         `json:"name" yaml:"name"`
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Stackable  bool           `json:"stackable,omitempty" yaml:"stackable,omitempty"`
	Quantity   int            `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// StatusSpec describes a status effect crossing the boundary.
type StatusSpec struct {
	Name             string  `json:"name"`
	Duration         int     `json:"duration"`
	DamagePerTurn    int     `json:"damagePerTurn,omitempty"`
	HealPerTurn      int     `json:"healPerTurn,omitempty"`
	OutgoingModifier float64 `json:"damageModifier,omitempty"`
	IncomingModifier float64 `json:"damageTakenModifier,omitempty"`
}

// NPCSpec describes an NPC in a generated room descriptor.
type NPCSpec struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind,omitempty"` // "hostile" | "humanoid"
	Occupation  string   `json:"occupation,omitempty"`
	Disposition string   `json:"disposition,omitempty"`
	MaxHealth   int      `json:"maxHealth"`
	BaseDamage  int      `json:"baseDamage"`
	Traits      []string `json:"traits,omitempty"`
}

// Intent is one atomic instruction batch from the Narrative Interpreter.
// All fields are optional; an empty Intent is a pure no-op.
type Intent struct {
	HealthDelta    int          `json:"healthDelta,omitempty"`
	AddStatuses    []StatusSpec `json:"addStatuses,omitempty"`
	RemoveStatuses []string     `json:"removeStatuses,omitempty"`
	AddFeatures    []string     `json:"addFeatures,omitempty"`
	RemoveItems    []string     `json:"removeItems,omitempty"`
	AddItems       []ItemSpec   `json:"addItems,omitempty"`
	Pickup         []string     `json:"pickup,omitempty"`
	Use            []string     `json:"use,omitempty"`
	Move           string       `json:"move,omitempty"`
	Attack         []string     `json:"attack,omitempty"`
	Craft          []string     `json:"craft,omitempty"`
	SearchCorpse   []string     `json:"searchCorpse,omitempty"`
	CustomEffects  []string     `json:"customEffects,omitempty"`
}

// Normalize validates and cleans an intent in place: name lists drop empty
// entries, the move direction is lowercased, and item quantities are raised
// to at least 1. Collaborator output must pass through Normalize before the
// applier trusts it.
//
// Postcondition: every string list contains only non-empty entries; every
// AddItems entry has Quantity >= 1.
func (in *Intent) Normalize() {
	in.AddFeatures = dropEmpty(in.AddFeatures)
	in.RemoveStatuses = dropEmpty(in.RemoveStatuses)
	in.RemoveItems = dropEmpty(in.RemoveItems)
	in.Pickup = dropEmpty(in.Pickup)
	in.Use = dropEmpty(in.Use)
	in.Attack = dropEmpty(in.Attack)
	in.Craft = dropEmpty(in.Craft)
	in.SearchCorpse = dropEmpty(in.SearchCorpse)
	in.CustomEffects = dropEmpty(in.CustomEffects)
	in.Move = strings.ToLower(strings.TrimSpace(in.Move))

	statuses := in.AddStatuses[:0]
	for _, s := range in.AddStatuses {
		if strings.TrimSpace(s.Name) != "" {
			statuses = append(statuses, s)
		}
	}
	in.AddStatuses = statuses

	items := in.AddItems[:0]
	for _, it := range in.AddItems {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		items = append(items, it)
	}
	in.AddItems = items
}

func dropEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// RoomView is the room snapshot supplied to the interpreter.
type RoomView struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Items       []string `json:"items,omitempty"`
	NPCs        []string `json:"npcs,omitempty"`
	Corpses     []string `json:"corpses,omitempty"`
	Exits       []string `json:"exits,omitempty"`
}

// PlayerView is the player snapshot supplied to the interpreter.
type PlayerView struct {
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Level     int      `json:"level"`
	Inventory []string `json:"inventory,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
}

// InterpretRequest is the input to the Narrative Interpreter.
type InterpretRequest struct {
	Room   RoomView   `json:"room"`
	Player PlayerView `json:"player"`
	Input  string     `json:"input"`
}

// InterpretResult is the Narrative Interpreter's output: a narrative to log
// unconditionally, a success flag gating whether the intents are applied, and
// the ordered intent list.
type InterpretResult struct {
	Narrative string   `json:"narrative"`
	Success   bool     `json:"success"`
	Intents   []Intent `json:"intents"`
}

// GenerateRequest is the input to the Room Generator.
type GenerateRequest struct {
	Theme         string   `json:"theme"`
	Difficulty    float64  `json:"difficulty"`
	RequiredExits []string `json:"requiredExits"`
}

// RoomDescriptor is the Room Generator's output. Contract: every required
// direction must appear in Exits; violations are patched locally by the
// world graph, never rejected.
type RoomDescriptor struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Exits       []string   `json:"exits"`
	Items       []ItemSpec `json:"items,omitempty"`
	NPCs        []NPCSpec  `json:"npcs,omitempty"`
	Features    []string   `json:"features,omitempty"`
}

// CraftRequest is the input to the Crafting Oracle.
type CraftRequest struct {
	Components []ItemSpec `json:"components"`
	Level      int        `json:"level"`
}

// CorpseSearchRequest is the input to the Corpse Search Narrator. It is
// consulted only when a corpse's stored loot and possessions are empty.
type CorpseSearchRequest struct {
	CorpseName string `json:"corpseName"`
	Condition  string `json:"condition"`
	Cause      string `json:"cause"`
	Occupation string `json:"occupation,omitempty"`
	SearcherID string `json:"searcherId"`
	RoomTitle  string `json:"roomTitle"`
}

// CorpseSearchResult is the Corpse Search Narrator's output.
type CorpseSearchResult struct {
	Items     []ItemSpec `json:"items"`
	Narration string     `json:"narration"`
}

// Interpreter turns free player text into a narrative plus ordered intents.
type Interpreter interface {
	Interpret(ctx context.Context, req InterpretRequest) (InterpretResult, error)
}

// RoomGenerator produces a room descriptor for lazy map expansion.
type RoomGenerator interface {
	GenerateRoom(ctx context.Context, req GenerateRequest) (*RoomDescriptor, error)
}

// CraftingOracle combines matched items into an optional crafted item.
// A nil result with a nil error means "cannot combine".
type CraftingOracle interface {
	Craft(ctx context.Context, req CraftRequest) (*ItemSpec, error)
}

// CorpseNarrator supplies supplemental loot and narration for empty corpses.
type CorpseNarrator interface {
	NarrateSearch(ctx context.Context, req CorpseSearchRequest) (*CorpseSearchResult, error)
}

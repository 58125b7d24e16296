package collab

import (
	"context"
	"fmt"
	"strings"
)

// StaticInterpreter is a deterministic, dependency-free Interpreter. It
// understands a small classified command vocabulary and serves both as the
// "static" provider and as documentation of the intent schema.
type StaticInterpreter struct{}

// Interpret classifies simple verb-object commands into intents.
//
// Postcondition: Returns Success == true with at most one intent; unknown
// verbs yield a failed result with a generic narrative.
func (StaticInterpreter) Interpret(_ context.Context, req InterpretRequest) (InterpretResult, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(strings.ToLower(req.Input)), " ")
	rest = strings.TrimSpace(rest)

	var in Intent
	switch verb {
	case "go", "move", "walk":
		in.Move = rest
	case "take", "get", "grab":
		in.Pickup = []string{rest}
	case "drop":
		in.RemoveItems = []string{rest}
	case "use", "drink", "eat":
		in.Use = []string{rest}
	case "attack", "hit", "fight", "kill":
		in.Attack = []string{rest}
	case "craft", "combine":
		in.Craft = strings.Fields(rest)
	case "search", "loot":
		in.SearchCorpse = []string{rest}
	default:
		return InterpretResult{
			Narrative: "You hesitate, unsure how to go about that.",
			Success:   false,
		}, nil
	}
	in.Normalize()
	return InterpretResult{
		Narrative: fmt.Sprintf("You %s.", strings.TrimSpace(req.Input)),
		Success:   true,
		Intents:   []Intent{in},
	}, nil
}

// StaticRoomGenerator is a deterministic RoomGenerator producing sparse rooms
// that honor every required exit.
type StaticRoomGenerator struct{}

// GenerateRoom builds a bare room descriptor for the requested theme.
//
// Postcondition: every direction in req.RequiredExits appears in Exits.
func (StaticRoomGenerator) GenerateRoom(_ context.Context, req GenerateRequest) (*RoomDescriptor, error) {
	theme := req.Theme
	if theme == "" {
		theme = "dungeon"
	}
	return &RoomDescriptor{
		Title:       fmt.Sprintf("A quiet stretch of %s", theme),
		Description: fmt.Sprintf("Rough-hewn walls close in around a quiet stretch of %s. Dust hangs in the still air.", theme),
		Exits:       append([]string(nil), req.RequiredExits...),
	}, nil
}

// StaticCraftingOracle is a CraftingOracle that never combines anything.
type StaticCraftingOracle struct{}

// Craft always reports "cannot combine".
func (StaticCraftingOracle) Craft(context.Context, CraftRequest) (*ItemSpec, error) {
	return nil, nil
}

// StaticCorpseNarrator is a deterministic CorpseNarrator returning a small
// generic find.
type StaticCorpseNarrator struct{}

// NarrateSearch returns a single trinket and a terse narration.
func (StaticCorpseNarrator) NarrateSearch(_ context.Context, req CorpseSearchRequest) (*CorpseSearchResult, error) {
	return &CorpseSearchResult{
		Items: []ItemSpec{
			{Name: "tarnished trinket", Category: "misc", Quantity: 1},
		},
		Narration: fmt.Sprintf("You go through what is left of %s and come up with little of worth.", req.CorpseName),
	}, nil
}

package world

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
)

// Graph owns the id-keyed room arena and expands the map lazily. Doors store
// the neighbor's id rather than a pointer, so the cyclic room topology stays
// serialisable.
type Graph struct {
	rooms  map[string]*Room
	theme  string
	logger *zap.Logger
}

// NewGraph creates a Graph seeded with the given start room.
//
// Precondition: start must not be nil and must have a non-empty ID;
// logger must not be nil.
func NewGraph(start *Room, theme string, logger *zap.Logger) *Graph {
	g := &Graph{
		rooms:  make(map[string]*Room),
		theme:  theme,
		logger: logger,
	}
	g.rooms[start.ID] = start
	return g
}

// Room returns the room with the given id.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (g *Graph) Room(id string) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

// RoomCount returns the number of rooms in the arena.
func (g *Graph) RoomCount() int {
	return len(g.rooms)
}

// ExitStatus classifies the outcome of EnsureExit.
type ExitStatus int

const (
	// ExitMissing means no door exists in the requested direction.
	ExitMissing ExitStatus = iota
	// ExitLocked means the door exists but is locked.
	ExitLocked
	// ExitReady means the door is unlocked and linked to a destination room.
	ExitReady
)

// ExitResult reports the outcome of EnsureExit.
type ExitResult struct {
	// Status classifies the outcome.
	Status ExitStatus
	// TargetID is the destination room id when Status is ExitReady.
	TargetID string
	// Generated is true when a new room was created for this call.
	Generated bool
	// Fallback is true when the generator failed and the deterministic
	// minimal room was used instead.
	Fallback bool
}

// EnsureExit resolves the door in the given direction, generating the far
// room on first passage. If the door is unlinked, the generator is asked for
// a room with the opposite direction as a mandatory exit plus 1–3 extra
// random directions; on generator failure a deterministic minimal room is
// built instead, so the map never dead-ends. Both sides of the passage are
// linked atomically.
//
// Precondition: origin must be a room owned by this graph; gen and src must
// not be nil.
// Postcondition: when Status is ExitReady, origin's door LeadsTo is non-empty
// and the destination room's reverse door points back to origin.
func (g *Graph) EnsureExit(ctx context.Context, origin *Room, dir Direction, playerLevel int, gen collab.RoomGenerator, src dice.Source) ExitResult {
	door, ok := origin.Door(dir)
	if !ok {
		return ExitResult{Status: ExitMissing}
	}
	if door.Locked {
		return ExitResult{Status: ExitLocked}
	}
	if door.LeadsTo != "" {
		return ExitResult{Status: ExitReady, TargetID: door.LeadsTo}
	}

	back := dir.Opposite()
	extras := pickExtraDirections(src, back)
	required := append([]Direction{back}, extras...)

	newRoom, fallback := g.generate(ctx, gen, origin, back, required, playerLevel, src)

	// Link both sides atomically: the back door must exist (patched in if the
	// generator dropped it), and only then is the origin door committed.
	backDoor, ok := newRoom.Door(back)
	if !ok {
		backDoor = &Door{Direction: back}
		newRoom.Doors = append(newRoom.Doors, backDoor)
	}
	backDoor.Locked = false
	backDoor.LeadsTo = origin.ID

	g.rooms[newRoom.ID] = newRoom
	door.LeadsTo = newRoom.ID

	return ExitResult{
		Status:    ExitReady,
		TargetID:  newRoom.ID,
		Generated: true,
		Fallback:  fallback,
	}
}

// generate asks the collaborator for a room and degrades to the deterministic
// minimal room on any failure. The bool result reports whether the fallback
// was used.
func (g *Graph) generate(ctx context.Context, gen collab.RoomGenerator, origin *Room, back Direction, required []Direction, playerLevel int, src dice.Source) (*Room, bool) {
	req := collab.GenerateRequest{
		Theme:         g.theme,
		Difficulty:    difficultyForLevel(playerLevel),
		RequiredExits: directionStrings(required),
	}
	desc, err := gen.GenerateRoom(ctx, req)
	if err != nil || desc == nil {
		g.logger.Warn("room generation failed, using fallback room",
			zap.String("origin", origin.ID),
			zap.String("direction", string(back.Opposite())),
			zap.Error(err),
		)
		return fallbackRoom(origin, back, required), true
	}

	room := &Room{
		ID:          uuid.New().String(),
		Title:       desc.Title,
		Description: desc.Description,
		Features:    desc.Features,
	}
	for _, e := range desc.Exits {
		d, ok := ParseDirection(e)
		if !ok {
			continue
		}
		if _, exists := room.Door(d); exists {
			continue
		}
		room.Doors = append(room.Doors, &Door{Direction: d})
	}
	// Required-exit count is a hard contract: synthesize any direction the
	// generator dropped.
	for _, d := range required {
		if _, exists := room.Door(d); !exists {
			room.Doors = append(room.Doors, &Door{
				Direction:   d,
				Description: "a plain passage",
			})
			g.logger.Debug("patched missing required exit",
				zap.String("room", room.ID),
				zap.String("direction", string(d)),
			)
		}
	}
	for _, spec := range desc.Items {
		room.Items = append(room.Items, item.FromSpec(spec))
	}
	for _, spec := range desc.NPCs {
		room.NPCs = append(room.NPCs, npc.FromSpec(spec))
	}
	return room, false
}

// fallbackRoom builds the deterministic minimal room: a linked back door plus
// one unlinked forward door per previously-chosen extra direction.
func fallbackRoom(origin *Room, back Direction, required []Direction) *Room {
	room := &Room{
		ID:          uuid.New().String(),
		Title:       "A featureless passage",
		Description: fmt.Sprintf("A bare stone passage continues on from %s. Nothing distinguishes it.", origin.Title),
	}
	for _, d := range required {
		room.Doors = append(room.Doors, &Door{Direction: d})
	}
	return room
}

// pickExtraDirections draws 1–3 distinct random directions, excluding the
// back direction.
func pickExtraDirections(src dice.Source, back Direction) []Direction {
	candidates := make([]Direction, 0, len(StandardDirections)-1)
	for _, d := range StandardDirections {
		if d != back {
			candidates = append(candidates, d)
		}
	}
	count := dice.Between(src, 1, 3)
	var extras []Direction
	for i := 0; i < count && len(candidates) > 0; i++ {
		idx := src.Intn(len(candidates))
		extras = append(extras, candidates[idx])
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}
	return extras
}

// difficultyForLevel maps player level onto the generator's difficulty scalar.
func difficultyForLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	d := 1.0 + float64(level-1)*0.5
	if d > 10 {
		d = 10
	}
	return d
}

func directionStrings(dirs []Direction) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, string(d))
	}
	return out
}

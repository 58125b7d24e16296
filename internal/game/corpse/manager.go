package corpse

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
	"github.com/karstgames/undercroft/internal/game/world"
)

// Search failure sentinels.
var (
	// ErrNotSearchable means decomposition has gone too far.
	ErrNotSearchable = errors.New("corpse is no longer searchable")
	// ErrAlreadySearched means this actor already searched the corpse.
	ErrAlreadySearched = errors.New("corpse already searched by this actor")
)

// Manager owns the global corpse registry and drives the decomposition
// lifecycle. It is not safe for concurrent use; the owning engine serialises
// access.
type Manager struct {
	registry    map[string]*Corpse
	possessions *PossessionTable
	src         dice.Source
	logger      *zap.Logger
}

// NewManager creates a Manager with the given possession table.
//
// Precondition: possessions, src, and logger must not be nil.
func NewManager(possessions *PossessionTable, src dice.Source, logger *zap.Logger) *Manager {
	return &Manager{
		registry:    make(map[string]*Corpse),
		possessions: possessions,
		src:         src,
		logger:      logger,
	}
}

// Get returns the corpse with the given id.
//
// Postcondition: Returns (corpse, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Corpse, bool) {
	c, ok := m.registry[id]
	return c, ok
}

// Find returns the first registered corpse in room matching name.
func (m *Manager) Find(room *world.Room, name string) (*Corpse, bool) {
	for _, id := range room.CorpseIDs {
		c, ok := m.registry[id]
		if !ok {
			continue
		}
		if c.matches(name) {
			return c, true
		}
	}
	return nil, false
}

// Count returns the number of registered corpses.
func (m *Manager) Count() int {
	return len(m.registry)
}

// OnDeath creates a corpse for the dead NPC, snapshots its loot plus derived
// possessions, registers it, and appends it to the room.
//
// Precondition: dead must not be nil; room must not be nil.
// Postcondition: the corpse is FRESH with decomposition 0 and Searchable true;
// its witness list holds every living humanoid in the room.
func (m *Manager) OnDeath(dead *npc.NPC, room *world.Room, cause string, now time.Time) *Corpse {
	c := &Corpse{
		ID:          uuid.New().String(),
		NPCID:       dead.ID,
		Name:        dead.Name,
		Occupation:  dead.Occupation,
		Condition:   ConditionFresh,
		TimeOfDeath: now,
		Cause:       cause,
		Searchable:  true,
		Loot:        append([]*item.Item(nil), dead.Loot...),
	}
	if dead.Kind == npc.KindHumanoid {
		c.Possessions = m.possessions.Derive(dead.Occupation, m.src)
	}
	for _, witness := range room.Humanoids() {
		if witness.ID != dead.ID {
			c.Witnesses = append(c.Witnesses, witness.ID)
		}
	}
	m.registry[c.ID] = c
	room.CorpseIDs = append(room.CorpseIDs, c.ID)

	m.logger.Debug("corpse created",
		zap.String("corpse_id", c.ID),
		zap.String("npc", dead.Name),
		zap.String("cause", cause),
	)
	return c
}

// TickEvent reports one corpse's change during a Tick.
type TickEvent struct {
	// CorpseID identifies the corpse.
	CorpseID string
	// Name is the corpse's display name.
	Name string
	// Condition is the stage after the tick.
	Condition Condition
	// Removed is true when the corpse fully decomposed and was deleted.
	Removed bool
}

// Tick ages every corpse in the given room against the current game time.
// Decomposition never decreases; corpses past the searchable limit stop being
// searchable, and fully decomposed corpses are removed from both the room and
// the registry.
//
// Postcondition: every remaining corpse in room has Decomposition < MaxDecomposition.
func (m *Manager) Tick(room *world.Room, now time.Time) []TickEvent {
	var events []TickEvent
	for _, id := range append([]string(nil), room.CorpseIDs...) {
		c, ok := m.registry[id]
		if !ok {
			room.RemoveCorpseID(id)
			continue
		}
		cond, level := conditionForElapsed(now.Sub(c.TimeOfDeath))
		if level < c.Decomposition {
			level = c.Decomposition
		}
		changed := cond != c.Condition || level != c.Decomposition
		c.Condition = cond
		c.Decomposition = level
		if level > searchableLimit {
			c.Searchable = false
		}
		if level >= MaxDecomposition {
			delete(m.registry, id)
			room.RemoveCorpseID(id)
			events = append(events, TickEvent{CorpseID: id, Name: c.Name, Condition: cond, Removed: true})
			m.logger.Debug("corpse fully decomposed", zap.String("corpse_id", id), zap.String("name", c.Name))
			continue
		}
		if changed {
			events = append(events, TickEvent{CorpseID: id, Name: c.Name, Condition: cond})
		}
	}
	return events
}

// SearchResult holds the outcome of a successful corpse search.
type SearchResult struct {
	// Items is the union of the corpse's loot and possessions, or the
	// narrator's supplemental finds when both snapshots were empty.
	Items []*item.Item
	// Narration is non-empty only when the narrator was consulted.
	Narration string
}

// Search empties the corpse's item snapshot for the given actor. Searching is
// idempotent per actor: a second search by the same actor fails with
// ErrAlreadySearched and transfers nothing. When the corpse holds no loot or
// possessions, the narrator is consulted for supplemental finds; narrator
// failure degrades to an empty find rather than an error.
//
// Precondition: c must be a registered corpse; actorID must be non-empty.
// Postcondition: on success the corpse's loot and possessions are empty and
// the actor is recorded as having searched it.
func (m *Manager) Search(ctx context.Context, c *Corpse, actorID string, narrator collab.CorpseNarrator) (*SearchResult, error) {
	if !c.Searchable {
		return nil, ErrNotSearchable
	}
	if c.SearchedBy(actorID) {
		return nil, ErrAlreadySearched
	}

	result := &SearchResult{}
	result.Items = append(result.Items, c.Loot...)
	result.Items = append(result.Items, c.Possessions...)

	if len(result.Items) == 0 && narrator != nil {
		found, err := narrator.NarrateSearch(ctx, collab.CorpseSearchRequest{
			CorpseName: c.Name,
			Condition:  string(c.Condition),
			Cause:      c.Cause,
			Occupation: c.Occupation,
			SearcherID: actorID,
		})
		if err != nil {
			m.logger.Warn("corpse narrator failed, returning empty find",
				zap.String("corpse_id", c.ID),
				zap.Error(err),
			)
		} else if found != nil {
			for _, spec := range found.Items {
				result.Items = append(result.Items, item.FromSpec(spec))
			}
			result.Narration = found.Narration
		}
	}

	c.Loot = nil
	c.Possessions = nil
	c.markSearched(actorID)
	return result, nil
}

func (c *Corpse) matches(name string) bool {
	if name == "" {
		return false
	}
	have := strings.ToLower(c.Name)
	want := strings.ToLower(name)
	return have == want || strings.Contains(have, want)
}

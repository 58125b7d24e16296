package engine

import "fmt"

// EventKind classifies entries in the append-only event log.
type EventKind string

const (
	// EventNarrative is flavor text from the interpreter or custom effects.
	EventNarrative EventKind = "narrative"
	// EventCombat covers attacks, deaths, surrenders, and retreats.
	EventCombat EventKind = "combat"
	// EventStatus covers status effect application, ticking, and expiry.
	EventStatus EventKind = "status"
	// EventItem covers pickup, use, crafting, and inventory changes.
	EventItem EventKind = "item"
	// EventMovement covers room transitions and exploration.
	EventMovement EventKind = "movement"
	// EventCorpse covers corpse decomposition and searching.
	EventCorpse EventKind = "corpse"
	// EventSystem covers collaborator fallbacks and engine notices.
	EventSystem EventKind = "system"
)

// Event is one narrated entry in the append-only event log.
type Event struct {
	// Turn is the turn counter value when the event was logged.
	Turn int
	// Kind classifies the event.
	Kind EventKind
	// Message is the narrated text.
	Message string
}

// logEvent appends a formatted event to the state's log.
func (s *State) logEvent(kind EventKind, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Turn:    s.Turn,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

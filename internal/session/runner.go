// Package session funnels each game session's turns through a single owner so
// the engine's single-writer turn-counter invariant holds under concurrent
// callers. Sessions are fully independent; nothing is shared between them.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/engine"
)

// Session is one live game owned by the runner. All turns for the session are
// serialized through its mutex; the engine itself is never accessed directly
// by more than one goroutine at a time.
type Session struct {
	// ID is the unique session identifier.
	ID string

	mu     sync.Mutex
	engine *engine.Engine
}

// ProcessTurn runs one turn for this session. Concurrent callers block until
// the in-flight turn finishes; turns are never interleaved or cancelled
// mid-application.
func (s *Session) ProcessTurn(ctx context.Context, input string) (*engine.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ProcessTurn(ctx, input)
}

// Engine returns the session's engine for inspection. Callers must not invoke
// it concurrently with ProcessTurn.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Runner tracks all active sessions. Independent sessions run fully
// concurrently since each owns its entire game state exclusively.
// All methods are safe for concurrent use.
type Runner struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewRunner creates an empty session Runner.
//
// Precondition: logger must not be nil.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Add registers a new session owning the given engine.
//
// Precondition: id must be non-empty; eng must not be nil.
// Postcondition: Returns the created Session, or an error if the id is
// already registered.
func (r *Runner) Add(id string, eng *engine.Engine) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return nil, fmt.Errorf("session %q already exists", id)
	}
	sess := &Session{ID: id, engine: eng}
	r.sessions[id] = sess
	r.logger.Info("session started", zap.String("session_id", id))
	return sess, nil
}

// Get returns the session with the given id.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (r *Runner) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Remove deletes the session with the given id. Unknown ids are a no-op.
func (r *Runner) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		delete(r.sessions, id)
		r.logger.Info("session ended", zap.String("session_id", id))
	}
}

// Len returns the number of active sessions.
func (r *Runner) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

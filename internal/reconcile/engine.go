package reconcile

import "sync"

// Token identifies one fetch generation for a session. A merge is only
// applied if its token is still the latest issued for that session,
// which makes a slow fetch that completes after a newer one a no-op
// instead of a rollback.
type Token struct {
	sessionID  string
	generation uint64
}

// Engine tracks fetch generations per session
type Engine struct {
	mu          sync.Mutex
	generations map[string]uint64
}

// NewEngine creates an empty engine
func NewEngine() *Engine {
	return &Engine{generations: make(map[string]uint64)}
}

// Begin starts a new fetch generation for a session and returns its
// token. Any token issued earlier for the same session becomes stale.
func (e *Engine) Begin(sessionID string) Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generations[sessionID]++
	return Token{sessionID: sessionID, generation: e.generations[sessionID]}
}

// Current reports whether the token is still the latest for its session
func (e *Engine) Current(t Token) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generations[t.sessionID] == t.generation
}

// Forget drops generation state for a session, typically after the
// session is deleted.
func (e *Engine) Forget(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.generations, sessionID)
}

package focus

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sink receives the reducer's persistence effects
type Sink interface {
	CheckpointFocus(ctx context.Context, userID string, secondsDelta int) error
	RecordFocusComplete(ctx context.Context, userID string, seconds, xpReward int) error
}

// Manager runs every user's timer off one shared ticker. Ticks, API
// events and effect dispatch are serialized per manager, so the reducer
// never sees concurrent events.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Session
	sink     Sink
	ticker   *time.Ticker
	done     chan struct{}
	closed   sync.Once
}

// NewManager creates a manager and starts its tick loop
func NewManager(sink Sink) *Manager {
	m := &Manager{
		sessions: make(map[string]Session),
		sink:     sink,
		ticker:   time.NewTicker(time.Second),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

// Close stops the tick loop and releases the ticker
func (m *Manager) Close() {
	m.closed.Do(func() {
		m.ticker.Stop()
		close(m.done)
	})
}

// Dispatch applies one event for a user and persists its effects
func (m *Manager) Dispatch(ctx context.Context, userID string, ev Event) Session {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	if !ok {
		session = Idle()
	}

	session, effects := Reduce(session, ev)
	if session.State == StateIdle && ev.Kind == EvStop {
		delete(m.sessions, userID)
	} else {
		m.sessions[userID] = session
	}
	m.mu.Unlock()

	m.apply(ctx, userID, effects)
	return session
}

// State returns a user's current session
func (m *Manager) State(userID string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		return Idle()
	}
	return session
}

func (m *Manager) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.ticker.C:
			m.tickAll()
		}
	}
}

func (m *Manager) tickAll() {
	type pending struct {
		userID  string
		effects []Effect
	}

	m.mu.Lock()
	var out []pending
	for userID, session := range m.sessions {
		next, effects := Reduce(session, Event{Kind: EvTick})
		m.sessions[userID] = next
		if len(effects) > 0 {
			out = append(out, pending{userID: userID, effects: effects})
		}
	}
	m.mu.Unlock()

	// Persist outside the lock; the database is slower than the tick.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, p := range out {
		m.apply(ctx, p.userID, p.effects)
	}
}

func (m *Manager) apply(ctx context.Context, userID string, effects []Effect) {
	for _, fx := range effects {
		switch fx.Kind {
		case FxCheckpoint:
			if err := m.sink.CheckpointFocus(ctx, userID, fx.Seconds); err != nil {
				log.Printf("⚠️ [FOCUS] Checkpoint failed for user %s: %v", userID, err)
			}
		case FxComplete:
			if err := m.sink.RecordFocusComplete(ctx, userID, fx.Seconds, fx.XP); err != nil {
				log.Printf("⚠️ [FOCUS] Completion credit failed for user %s: %v", userID, err)
			}
		}
	}
}

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/media-dashboard/backend/internal/dashboard"
)

// MaxSessions limits concurrent dashboard sessions to prevent memory exhaustion
const MaxSessions = 50

// SessionMaxAge is how long an untouched session is kept before cleanup
const SessionMaxAge = 30 * time.Minute

// Manager tracks active dashboard sessions. Each session owns its own
// dashboard controller, so concurrent users never share state.
type Manager struct {
	mu            sync.RWMutex
	sessions      map[string]*State
	newController func() *dashboard.Controller
}

// State holds one session and its controller.
type State struct {
	ID           string
	Controller   *dashboard.Controller
	CreatedAt    time.Time
	LastAccessed time.Time
}

// NewManager creates a session manager. newController is called once per
// session to build its dashboard controller.
func NewManager(newController func() *dashboard.Controller) *Manager {
	return &Manager{
		sessions:      make(map[string]*State),
		newController: newController,
	}
}

// Create starts a new session. When the session limit is reached the least
// recently used session is evicted first.
func (m *Manager) Create() *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= MaxSessions {
		m.evictOldestLocked()
	}

	now := time.Now()
	state := &State{
		ID:           uuid.New().String(),
		Controller:   m.newController(),
		CreatedAt:    now,
		LastAccessed: now,
	}
	m.sessions[state.ID] = state
	fmt.Printf("[Session %s] created (%d active)\n", state.ID[:8], len(m.sessions))
	return state
}

// Get returns the session and refreshes its last-accessed time.
func (m *Manager) Get(id string) (*State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = time.Now()
	return state, true
}

// Delete removes a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	fmt.Printf("[Session %s] deleted (%d active)\n", id[:8], len(m.sessions))
	return true
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes sessions untouched for longer than maxAge and returns how
// many were removed.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		fmt.Printf("[Session] cleanup removed %d stale sessions (%d active)\n", removed, len(m.sessions))
	}
	return removed
}

// RunCleanup periodically evicts stale sessions until ctx is cancelled.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup(SessionMaxAge)
		}
	}
}

// evictOldestLocked drops the least recently used session. Callers must hold mu.
func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, state := range m.sessions {
		if oldestID == "" || state.LastAccessed.Before(oldest) {
			oldestID = id
			oldest = state.LastAccessed
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		fmt.Printf("[Session %s] evicted to stay under limit\n", oldestID[:8])
	}
}

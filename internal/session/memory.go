package session

import (
	"context"
	"sync"
	"time"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

// MemoryStore keeps sessions in process memory. Sessions idle for longer than
// the TTL are dropped.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs an empty in-memory store. Sessions expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{sessions: map[string]Session{}, ttl: ttl, now: time.Now}
}

func (m *MemoryStore) expired(s Session, now time.Time) bool {
	return now.Sub(s.UpdatedAt) > m.ttl
}

func (m *MemoryStore) load(viewer string) Session {
	s, ok := m.sessions[viewer]
	if !ok || m.expired(s, m.now()) {
		delete(m.sessions, viewer)
		return Session{Viewer: viewer}
	}
	return s
}

// sweep removes every expired session. Callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for viewer, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, viewer)
		}
	}
}

// Len reports the number of sessions currently held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) Get(_ context.Context, viewer string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(viewer), nil
}

func (m *MemoryStore) Begin(_ context.Context, viewer string, kind report.Kind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	s := m.load(viewer)
	begin(&s, kind, m.now())
	m.sessions[viewer] = s
	return s.Generation, nil
}

func (m *MemoryStore) Commit(_ context.Context, viewer string, generation int64, records report.Records) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.load(viewer)
	if s.Generation != generation {
		return s, ErrSuperseded
	}
	commit(&s, records, m.now())
	m.sessions[viewer] = s
	return s, nil
}

func (m *MemoryStore) SetNotice(_ context.Context, viewer string, generation int64, message string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.load(viewer)
	if s.Generation != generation {
		return s, ErrSuperseded
	}
	notice(&s, message, m.now())
	m.sessions[viewer] = s
	return s, nil
}

func (m *MemoryStore) SetWindow(_ context.Context, viewer string, window report.DateWindow) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.load(viewer)
	s.Window = window
	s.UpdatedAt = m.now()
	m.sessions[viewer] = s
	return s, nil
}

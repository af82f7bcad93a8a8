package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session    *Session
	lastAccess time.Time
}

// MemoryStore keeps sessions in process memory and forgets them after
// they have been idle for longer than the configured TTL.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateSession() *Session {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Messages:  []Message{},
		CreatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess, lastAccess: now}
	s.mu.Unlock()

	return sess
}

// GetSession returns the session and refreshes its idle timer. Expired
// sessions are removed and reported as missing.
func (s *MemoryStore) GetSession(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if now.Sub(e.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastAccess = now
	return e.session, true
}

func (s *MemoryStore) DeleteSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every expired session and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastAccess) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

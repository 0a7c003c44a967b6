package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps sessions in process memory. An in-flight admin flow is
// lost on restart; this is a documented limitation, not a bug.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStorage returns an empty in-memory Storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]*Session),
	}
}

// GetState returns the stored session or ErrStateNotFound when absent.
func (s *MemoryStorage) GetState(_ context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrStateNotFound
	}

	return cloneSession(session), nil
}

// SetState saves the provided session, stamping its update time.
func (s *MemoryStorage) SetState(_ context.Context, userID int64, session *Session) error {
	stored := cloneSession(session)
	stored.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = stored

	return nil
}

// ClearState removes the session for the given user.
func (s *MemoryStorage) ClearState(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// All returns a snapshot of every stored session.
func (s *MemoryStorage) All() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, cloneSession(session))
	}

	return out
}

func cloneSession(session *Session) *Session {
	if session == nil {
		return nil
	}

	copySession := *session
	return &copySession
}

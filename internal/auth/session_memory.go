package auth

import (
	"context"
	"sync"
	"time"
)

// MemorySessionRepo is an in-memory SessionRepo used when no database is
// configured.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]Session)}
}

func (r *MemorySessionRepo) Save(ctx context.Context, session Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.sessions[session.UserID]; ok {
		session.CreatedAt = existing.CreatedAt
	} else {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	r.sessions[session.UserID] = session
	return nil
}

func (r *MemorySessionRepo) Get(ctx context.Context, userID string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	return session, nil
}

func (r *MemorySessionRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

// Count reports the number of live sessions; used by tests to assert the
// one-row-per-account invariant.
func (r *MemorySessionRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

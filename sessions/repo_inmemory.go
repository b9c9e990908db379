package sessions

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Sessions live only in process memory and do not survive a
// restart.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]*Session),
	}
}

// Upsert stores or updates a session
func (r *InMemoryRepo) Upsert(sessionID string, session *Session) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if session == nil {
		return errors.New("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	stored := *session
	r.sessions[sessionID] = &stored
	return nil
}

// Get retrieves a session by ID
func (r *InMemoryRepo) Get(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	// Return a copy to prevent external modifications
	found := *session
	return &found, nil
}

// Update mutates the stored session in place under the write lock. Absent IDs
// are reported as ErrSessionNotFound rather than created.
func (r *InMemoryRepo) Update(sessionID string, fn func(*Session)) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	fn(session)
	return nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// DeleteExpiredSessions removes every session whose ExpiresAt is at or before
// cutoff
func (r *InMemoryRepo) DeleteExpiredSessions(cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if !session.ExpiresAt.After(cutoff) {
			delete(r.sessions, id)
		}
	}
	return nil
}

package sessions

import "time"

// Repo defines the interface for session storage operations.
type Repo interface {
	// Upsert creates or updates a session
	Upsert(sessionID string, session *Session) error

	// Get retrieves a session by ID
	Get(sessionID string) (*Session, error)

	// Update applies fn to the stored session under the store's lock. It
	// returns ErrSessionNotFound if the ID is absent, so a session removed
	// concurrently is never written back into existence.
	Update(sessionID string, fn func(*Session)) error

	// Delete removes a session by ID
	Delete(sessionID string) error

	// DeleteExpiredSessions removes every session whose ExpiresAt is at or
	// before cutoff
	DeleteExpiredSessions(cutoff time.Time) error
}

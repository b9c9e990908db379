package sessions

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/chessturo/SpotifyInsights/internal/config"
	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
	"github.com/chessturo/SpotifyInsights/securetoken"
	"github.com/chessturo/SpotifyInsights/spotify"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// TokenRefresher mints new token material from a refresh token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (spotify.TokenResult, error)
}

// Manager owns all session records. It is constructed once at startup and
// handed to request handlers; no other component mutates a session directly.
// All methods are safe for concurrent use.
type Manager struct {
	repo      Repo
	refresher TokenRefresher
	config    config.SessionConfig

	// Collapses concurrent refreshes of the same session into one
	// upstream call.
	refreshGroup singleflight.Group
}

// NewManager creates a session manager backed by repo, refreshing access
// tokens through refresher.
func NewManager(repo Repo, refresher TokenRefresher, cfg config.SessionConfig) *Manager {
	return &Manager{
		repo:      repo,
		refresher: refresher,
		config:    cfg,
	}
}

// Create builds a session from freshly exchanged token material, stores it
// under a newly generated ID, and returns the ID. The session's own expiry is
// fixed here and never extended.
func (m *Manager) Create(tok spotify.TokenResult) (string, error) {
	id, err := securetoken.Generate(m.config.GetSessionIDLength())
	if err != nil {
		return "", apperrors.Wrapf(err, "failed to generate session id")
	}

	now := NowTimeFunc()
	session := &Session{
		ID:             id,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		TokenExpiresAt: tokenExpiry(now, tok.ExpiresIn),
		ExpiresAt:      now.Add(m.config.GetSessionLifetime() - time.Second),
		CreatedAt:      now,
	}
	if err := m.repo.Upsert(id, session); err != nil {
		return "", apperrors.Wrapf(err, "failed to store session")
	}
	return id, nil
}

// Get returns the session for sessionID. A session past its expiry is
// reported as expired even if the sweeper has not reclaimed it yet.
func (m *Manager) Get(sessionID string) (*Session, error) {
	session, err := m.repo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !NowTimeFunc().Before(session.ExpiresAt) {
		return nil, apperrors.ErrSessionExpired
	}
	return session, nil
}

// EnsureFreshToken returns an access token valid for provider API calls,
// refreshing it first if it has gone stale. A valid token is returned without
// any upstream call. Concurrent callers for the same session share a single
// refresh.
func (m *Manager) EnsureFreshToken(ctx context.Context, sessionID string) (string, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return "", err
	}
	if NowTimeFunc().Before(session.TokenExpiresAt) {
		return session.AccessToken, nil
	}

	token, err, _ := m.refreshGroup.Do(sessionID, func() (interface{}, error) {
		return m.refreshSession(ctx, sessionID)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *Manager) refreshSession(ctx context.Context, sessionID string) (string, error) {
	// Re-read under the flight: a caller that lost the race to a completed
	// refresh finds a fresh token here and goes no further.
	session, err := m.Get(sessionID)
	if err != nil {
		return "", err
	}
	if NowTimeFunc().Before(session.TokenExpiresAt) {
		return session.AccessToken, nil
	}

	tok, err := m.refresher.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return "", err
	}

	// Write back under the store's lock, and only if the session still
	// exists: a logout or sweep that raced the upstream call must not be
	// undone here.
	err = m.repo.Update(sessionID, func(s *Session) {
		s.AccessToken = tok.AccessToken
		if exp := tokenExpiry(NowTimeFunc(), tok.ExpiresIn); exp.After(s.TokenExpiresAt) {
			s.TokenExpiresAt = exp
		}
		if tok.RefreshToken != "" {
			s.RefreshToken = tok.RefreshToken
		}
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return "", err
		}
		return "", apperrors.Wrapf(err, "failed to store refreshed session")
	}
	return tok.AccessToken, nil
}

// Delete removes a session unconditionally. A removed ID is never
// resurrected; a later Get simply reports not found.
func (m *Manager) Delete(sessionID string) error {
	return m.repo.Delete(sessionID)
}

// tokenExpiry computes the instant an access token stops being usable. The
// one second shaved off hedges against a token expiring upstream while a
// request carrying it is in flight.
func tokenExpiry(now time.Time, expiresIn int64) time.Time {
	return now.Add(time.Duration(expiresIn)*time.Second - time.Second)
}

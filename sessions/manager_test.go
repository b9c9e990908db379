package sessions_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chessturo/SpotifyInsights/internal/config"
	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
	"github.com/chessturo/SpotifyInsights/sessions"
	"github.com/chessturo/SpotifyInsights/spotify"
)

// fakeRefresher counts upstream refresh calls and returns a canned result.
type fakeRefresher struct {
	calls  atomic.Int64
	result spotify.TokenResult
	err    error
	delay  time.Duration
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (spotify.TokenResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return spotify.TokenResult{}, f.err
	}
	return f.result, nil
}

func fixTime(t *testing.T, fixed time.Time) {
	t.Helper()
	original := sessions.NowTimeFunc
	t.Cleanup(func() { sessions.NowTimeFunc = original })
	sessions.NowTimeFunc = func() time.Time { return fixed }
}

func newTestManager(refresher sessions.TokenRefresher) (*sessions.Manager, *sessions.InMemoryRepo) {
	repo := sessions.NewInMemoryRepo()
	return sessions.NewManager(repo, refresher, config.Sessions{}), repo
}

func TestManager_Create(t *testing.T) {
	exchangeTime := time.Unix(1000, 0)
	fixTime(t, exchangeTime)

	manager, _ := newTestManager(&fakeRefresher{})

	sessionID, err := manager.Create(spotify.TokenResult{
		AccessToken:  "tok1",
		ExpiresIn:    3600,
		RefreshToken: "ref1",
	})
	require.NoError(t, err)
	require.Len(t, sessionID, 128, "session id is 64 bytes of hex")

	session, err := manager.Get(sessionID)
	require.NoError(t, err)
	require.Equal(t, "tok1", session.AccessToken)
	require.Equal(t, "ref1", session.RefreshToken)
	require.Equal(t, time.Unix(4599, 0), session.TokenExpiresAt, "token expiry is exchange time plus expires_in minus one second")
	require.Equal(t, exchangeTime.Add(config.Sessions{}.GetSessionLifetime()-time.Second), session.ExpiresAt)
}

func TestManager_Get(t *testing.T) {
	now := time.Unix(1000, 0)
	fixTime(t, now)

	manager, repo := newTestManager(&fakeRefresher{})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := manager.Get("nope")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("expired session is unreachable before any sweep", func(t *testing.T) {
		require.NoError(t, repo.Upsert("expired", &sessions.Session{
			ID:        "expired",
			ExpiresAt: now.Add(-time.Second),
		}))

		_, err := manager.Get("expired")
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})

	t.Run("session expiring exactly now is unreachable", func(t *testing.T) {
		require.NoError(t, repo.Upsert("boundary", &sessions.Session{
			ID:        "boundary",
			ExpiresAt: now,
		}))

		_, err := manager.Get("boundary")
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})
}

func TestManager_EnsureFreshToken(t *testing.T) {
	now := time.Unix(1000, 0)

	t.Run("valid token performs zero upstream calls", func(t *testing.T) {
		fixTime(t, now)
		refresher := &fakeRefresher{}
		manager, _ := newTestManager(refresher)

		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 3600, RefreshToken: "ref1"})
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			token, err := manager.EnsureFreshToken(context.Background(), sessionID)
			require.NoError(t, err)
			require.Equal(t, "tok1", token)
		}
		require.EqualValues(t, 0, refresher.calls.Load())
	})

	t.Run("stale token is refreshed in place", func(t *testing.T) {
		fixTime(t, now)
		refresher := &fakeRefresher{result: spotify.TokenResult{AccessToken: "tok2", ExpiresIn: 7200, RefreshToken: "ref2"}}
		manager, _ := newTestManager(refresher)

		// expires_in of 1 makes the token stale immediately under fixed time
		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 1, RefreshToken: "ref1"})
		require.NoError(t, err)

		token, err := manager.EnsureFreshToken(context.Background(), sessionID)
		require.NoError(t, err)
		require.Equal(t, "tok2", token)
		require.EqualValues(t, 1, refresher.calls.Load())

		session, err := manager.Get(sessionID)
		require.NoError(t, err)
		require.Equal(t, "tok2", session.AccessToken)
		require.Equal(t, "ref2", session.RefreshToken)
		require.Equal(t, now.Add(7199*time.Second), session.TokenExpiresAt)
	})

	t.Run("refresh without new refresh token keeps the old one", func(t *testing.T) {
		fixTime(t, now)
		refresher := &fakeRefresher{result: spotify.TokenResult{AccessToken: "tok2", ExpiresIn: 3600}}
		manager, _ := newTestManager(refresher)

		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 1, RefreshToken: "ref1"})
		require.NoError(t, err)

		_, err = manager.EnsureFreshToken(context.Background(), sessionID)
		require.NoError(t, err)

		session, err := manager.Get(sessionID)
		require.NoError(t, err)
		require.Equal(t, "ref1", session.RefreshToken)
	})

	t.Run("token expiry never decreases", func(t *testing.T) {
		fixTime(t, now)
		// A refresh reporting a shorter expiry than the session already has
		// must not pull the expiry backwards.
		refresher := &fakeRefresher{result: spotify.TokenResult{AccessToken: "tok2", ExpiresIn: 1, RefreshToken: "ref2"}}
		manager, _ := newTestManager(refresher)

		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 1, RefreshToken: "ref1"})
		require.NoError(t, err)

		before, err := manager.Get(sessionID)
		require.NoError(t, err)

		_, err = manager.EnsureFreshToken(context.Background(), sessionID)
		require.NoError(t, err)

		after, err := manager.Get(sessionID)
		require.NoError(t, err)
		require.False(t, after.TokenExpiresAt.Before(before.TokenExpiresAt))
	})

	t.Run("refresh failure is propagated and leaves the session intact", func(t *testing.T) {
		fixTime(t, now)
		refresher := &fakeRefresher{err: apperrors.ErrUpstream}
		manager, _ := newTestManager(refresher)

		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 1, RefreshToken: "ref1"})
		require.NoError(t, err)

		_, err = manager.EnsureFreshToken(context.Background(), sessionID)
		require.ErrorIs(t, err, apperrors.ErrUpstream)

		session, err := manager.Get(sessionID)
		require.NoError(t, err)
		require.Equal(t, "tok1", session.AccessToken)
		require.Equal(t, "ref1", session.RefreshToken)
	})

	t.Run("delete during an in-flight refresh is not undone", func(t *testing.T) {
		fixTime(t, now)
		refresher := &fakeRefresher{
			result: spotify.TokenResult{AccessToken: "tok2", ExpiresIn: 3600, RefreshToken: "ref2"},
			delay:  100 * time.Millisecond,
		}
		manager, _ := newTestManager(refresher)

		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 1, RefreshToken: "ref1"})
		require.NoError(t, err)

		refreshErr := make(chan error, 1)
		go func() {
			_, err := manager.EnsureFreshToken(context.Background(), sessionID)
			refreshErr <- err
		}()

		// Log out while the upstream call is still blocked; the refresh
		// completing later must not write the session back.
		time.Sleep(30 * time.Millisecond)
		require.NoError(t, manager.Delete(sessionID))

		require.ErrorIs(t, <-refreshErr, apperrors.ErrSessionNotFound)

		_, err = manager.Get(sessionID)
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound, "a removed id stays removed")
	})

	t.Run("concurrent refreshes of one session share a single upstream call", func(t *testing.T) {
		fixTime(t, now)
		refresher := &fakeRefresher{
			result: spotify.TokenResult{AccessToken: "tok2", ExpiresIn: 3600, RefreshToken: "ref2"},
			delay:  50 * time.Millisecond,
		}
		manager, _ := newTestManager(refresher)

		sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 1, RefreshToken: "ref1"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				token, err := manager.EnsureFreshToken(context.Background(), sessionID)
				if err != nil {
					t.Error(err)
					return
				}
				if token != "tok2" {
					t.Errorf("got token %q, want tok2", token)
				}
			}()
		}
		wg.Wait()

		require.EqualValues(t, 1, refresher.calls.Load())
	})
}

func TestManager_Delete(t *testing.T) {
	fixTime(t, time.Unix(1000, 0))
	manager, _ := newTestManager(&fakeRefresher{})

	sessionID, err := manager.Create(spotify.TokenResult{AccessToken: "tok1", ExpiresIn: 3600, RefreshToken: "ref1"})
	require.NoError(t, err)

	require.NoError(t, manager.Delete(sessionID))

	_, err = manager.Get(sessionID)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	// Deleting again is not an error; a removed id stays removed.
	require.NoError(t, manager.Delete(sessionID))
	_, err = manager.Get(sessionID)
	require.True(t, errors.Is(err, apperrors.ErrSessionNotFound))
}

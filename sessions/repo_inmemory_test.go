package sessions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
	"github.com/chessturo/SpotifyInsights/sessions"
)

func TestInMemoryRepo(t *testing.T) {
	now := time.Unix(1000, 0)

	t.Run("upsert then get returns a copy", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		session := &sessions.Session{ID: "s1", AccessToken: "tok1", ExpiresAt: now.Add(time.Hour)}
		require.NoError(t, repo.Upsert("s1", session))

		// Mutating the original must not affect the stored record
		session.AccessToken = "mutated"

		got, err := repo.Get("s1")
		require.NoError(t, err)
		require.Equal(t, "tok1", got.AccessToken)

		// Nor must mutating what Get handed back
		got.AccessToken = "mutated again"
		again, err := repo.Get("s1")
		require.NoError(t, err)
		require.Equal(t, "tok1", again.AccessToken)
	})

	t.Run("get of unknown id reports not found", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		_, err := repo.Get("missing")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("update mutates in place", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("s1", &sessions.Session{ID: "s1", AccessToken: "tok1"}))

		require.NoError(t, repo.Update("s1", func(s *sessions.Session) {
			s.AccessToken = "tok2"
		}))

		got, err := repo.Get("s1")
		require.NoError(t, err)
		require.Equal(t, "tok2", got.AccessToken)
	})

	t.Run("update of unknown id reports not found and creates nothing", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		err := repo.Update("missing", func(s *sessions.Session) {
			s.AccessToken = "tok1"
		})
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		_, err = repo.Get("missing")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("empty ids are rejected", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.Error(t, repo.Upsert("", &sessions.Session{}))
		require.Error(t, repo.Upsert("s1", nil))
		_, err := repo.Get("")
		require.Error(t, err)
		require.Error(t, repo.Delete(""))
		require.Error(t, repo.Update("", func(*sessions.Session) {}))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("s1", &sessions.Session{ID: "s1"}))
		require.NoError(t, repo.Delete("s1"))
		require.NoError(t, repo.Delete("s1"))
	})

	t.Run("expiry cleanup removes at-or-before cutoff only", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("past", &sessions.Session{ID: "past", ExpiresAt: now.Add(-time.Second)}))
		require.NoError(t, repo.Upsert("boundary", &sessions.Session{ID: "boundary", ExpiresAt: now}))
		require.NoError(t, repo.Upsert("future", &sessions.Session{ID: "future", ExpiresAt: now.Add(time.Second)}))

		require.NoError(t, repo.DeleteExpiredSessions(now))

		_, err := repo.Get("past")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		_, err = repo.Get("boundary")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		_, err = repo.Get("future")
		require.NoError(t, err)
	})
}

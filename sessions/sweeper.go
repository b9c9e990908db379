package sessions

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper periodically reclaims expired sessions. It runs on its own timer,
// never blocks request handling, and only ever deletes; a read racing a
// delete just observes the session as absent.
type Sweeper struct {
	repo     Repo
	interval time.Duration
}

// NewSweeper creates a sweeper purging expired sessions from repo once per
// interval.
func NewSweeper(repo Repo, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
	}
}

// Run blocks, sweeping once per interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping session sweeper")
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep removes every session whose expiry has passed as of now. The cutoff
// is re-read on each cycle, not captured when the sweeper starts. Failures
// are logged, never escalated.
func (s *Sweeper) Sweep() {
	cutoff := NowTimeFunc()
	if err := s.repo.DeleteExpiredSessions(cutoff); err != nil {
		log.Error().Err(err).Msg("session sweep failed")
	}
}

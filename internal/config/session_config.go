package config

import "time"

type SessionConfig interface {
	GetSessionLifetime() time.Duration
	GetSweepInterval() time.Duration
	GetSessionIDLength() int
	GetStateLength() int
}

type Sessions struct{}

var _ SessionConfig = Sessions{}

func (Sessions) GetSessionLifetime() time.Duration {
	return 30 * 24 * time.Hour // 30 days
}

func (Sessions) GetSweepInterval() time.Duration {
	return 60 * time.Second
}

func (Sessions) GetSessionIDLength() int {
	return 64 // 64 bytes = 512 bits
}

// GetStateLength returns the byte width of the CSRF state value. It matches
// the session id width so the state is not the weaker of the two secrets.
func (Sessions) GetStateLength() int {
	return 64
}

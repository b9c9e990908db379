// Package csrf implements the state parameter round-tripped through the
// OAuth2 authorization redirect. A state value is issued at login time,
// carried both in a cookie and in the provider's redirect query string, and
// compared exactly once when the browser comes back.
package csrf

import (
	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
	"github.com/chessturo/SpotifyInsights/securetoken"
)

// CookieName is the cookie under which the caller transmits the state value.
const CookieName = "oauth_state"

// Guard issues and validates per-login-attempt state values.
type Guard struct {
	stateLength int
}

// NewGuard creates a Guard producing state values of stateLength random bytes.
func NewGuard(stateLength int) *Guard {
	return &Guard{stateLength: stateLength}
}

// Issue returns a new state value. The caller sets it as the CookieName
// cookie and includes it in the authorize redirect.
func (g *Guard) Issue() (string, error) {
	return securetoken.Generate(g.stateLength)
}

// Validate checks the state echoed back by the provider against the one
// stored in the browser's cookie. Both values must be present and exactly
// equal; absence of either is a failure, never a pass. Any failure is
// reported as ErrStateMismatch.
func (g *Guard) Validate(cookieValue, queryValue string) error {
	if cookieValue == "" || queryValue == "" {
		return apperrors.ErrStateMismatch
	}
	if cookieValue != queryValue {
		return apperrors.ErrStateMismatch
	}
	return nil
}

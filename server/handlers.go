package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/chessturo/SpotifyInsights/csrf"
	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"

	// How many recently played tracks the results page shows
	recentTrackCount = 10
)

// LoginHandler starts a login attempt: it issues a CSRF state value, stores
// it in a cookie, and redirects the browser to the provider's authorize
// endpoint with the same state in the query string.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.stateGuard.Issue()
		if err != nil {
			log.Error().Err(err).Msg("failed to issue state value")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		setStateCookie(w, state)
		http.Redirect(w, r, s.oauthConfig.AuthCodeURL(state), http.StatusFound)
	}
}

// CallbackHandler completes a login attempt: it validates the round-tripped
// state, exchanges the authorization code for tokens, and creates the
// session the browser will present from now on.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryState := r.URL.Query().Get("state")

		var cookieState string
		if cookie, err := r.Cookie(csrf.CookieName); err == nil {
			cookieState = cookie.Value
		}

		if err := s.stateGuard.Validate(cookieState, queryState); err != nil {
			log.Warn().Err(err).Msg("callback rejected: state cookie and query parameter do not match")
			w.Header().Set("Content-Type", contentTypeText)
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, "State mismatch.")
			return
		}

		// The state is compared exactly once; discard it either way.
		clearStateCookie(w)

		if errParam := r.URL.Query().Get("error"); errParam != "" {
			w.Header().Set("Content-Type", contentTypeText)
			fmt.Fprintf(w, "Error: %s", errParam)
			return
		}

		tok, err := s.tokenClient.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			log.Error().Err(err).Msg("authorization code exchange failed")
			http.Error(w, "Authentication failed", http.StatusInternalServerError)
			return
		}

		sessionID, err := s.sessions.Create(tok)
		if err != nil {
			log.Error().Err(err).Msg("failed to create session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		setSessionCookie(w, sessionID, s.config.GetSessionLifetime())
		http.Redirect(w, r, RouteResults, http.StatusFound)
	}
}

// ResultsHandler resolves the browser's session, refreshes the access token
// if it has gone stale, and shows the user's recently played tracks.
func (s *Server) ResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := sessionIDFromRequest(r)
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusFound)
			return
		}

		accessToken, err := s.sessions.EnsureFreshToken(r.Context(), sessionID)
		if apperrors.Is(err, apperrors.ErrSessionNotFound) || apperrors.Is(err, apperrors.ErrSessionExpired) {
			// Unknown or expired session is "not authenticated", not an error
			http.Redirect(w, r, RouteLogin, http.StatusFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("token refresh failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		tracks, err := s.api.GetRecentlyPlayed(r.Context(), accessToken, recentTrackCount)
		if err != nil {
			// The session stays valid; only this request fails.
			log.Error().Err(err).Msg("recently played request failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeText)
		fmt.Fprintln(w, "Recently played:")
		for _, track := range tracks {
			fmt.Fprintln(w, track.String())
		}
	}
}

// LogoutHandler removes the browser's session and clears its cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID, ok := sessionIDFromRequest(r); ok {
			if err := s.sessions.Delete(sessionID); err != nil {
				log.Error().Err(err).Msg("failed to delete session on logout")
			}
		}

		clearSessionCookie(w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

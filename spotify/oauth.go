package spotify

import (
	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"

	"github.com/chessturo/SpotifyInsights/internal/config"
)

// Endpoints resolves the provider's authorize and token endpoints, falling
// back to the well-known Spotify endpoints when no override is configured.
func Endpoints(cfg config.SpotifyConfig) oauth2.Endpoint {
	endpoint := spotifyauth.Endpoint
	if u := cfg.GetAuthURL(); u != "" {
		endpoint.AuthURL = u
	}
	if u := cfg.GetTokenURL(); u != "" {
		endpoint.TokenURL = u
	}
	return endpoint
}

// NewOAuthConfig builds the oauth2.Config used to construct the authorize
// redirect. Token exchange itself goes through TokenClient, which owns the
// exact expiry semantics.
func NewOAuthConfig(cfg config.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		Endpoint:     Endpoints(cfg),
		RedirectURL:  cfg.GetRedirectURL(),
		Scopes:       cfg.GetScopes(),
	}
}

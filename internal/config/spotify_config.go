package config

import (
	"fmt"
	"strings"
)

// SpotifyConfig describes everything needed to talk to the provider:
// client credentials, the authorize/token endpoints, and the resource API.
type SpotifyConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURL() string
	GetScopes() []string
	GetAuthURL() string
	GetTokenURL() string
	GetAPIBaseURL() string
}

const (
	clientIDVar     = "SPOTIFY_CLIENT_ID"
	clientSecretVar = "SPOTIFY_CLIENT_SECRET"

	defaultAPIBaseURL = "https://api.spotify.com/v1"
	defaultScopes     = "user-read-recently-played"
)

type Spotify struct{}

var _ SpotifyConfig = Spotify{}

func (Spotify) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (Spotify) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (Spotify) GetRedirectURL() string {
	return EnvVars{}.GetBaseURL() + "/callback"
}

func (Spotify) GetScopes() []string {
	return strings.Split(GetEnv("SPOTIFY_SCOPES", defaultScopes), " ")
}

// The endpoint overrides exist so tests and local mocks can stand in for
// the real provider. Empty means the well-known Spotify endpoints.
func (Spotify) GetAuthURL() string {
	return GetEnv("SPOTIFY_AUTH_URL", "")
}

func (Spotify) GetTokenURL() string {
	return GetEnv("SPOTIFY_TOKEN_URL", "")
}

func (Spotify) GetAPIBaseURL() string {
	return GetEnv("SPOTIFY_API_URL", defaultAPIBaseURL)
}

// Validate checks that the configuration required before serving is present.
// A missing client credential is fatal at startup, not at first login.
func Validate(c Config) error {
	var missing []string
	if c.GetClientID() == "" {
		missing = append(missing, clientIDVar)
	}
	if c.GetClientSecret() == "" {
		missing = append(missing, clientSecretVar)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

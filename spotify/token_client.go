package spotify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/chessturo/SpotifyInsights/internal/config"
	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
)

// TokenResult is the token material returned by the provider's token
// endpoint. RefreshToken may be empty on a refresh response; the caller then
// keeps the one it already holds.
type TokenResult struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// TokenClient performs the authorization-code and refresh-token grants
// against the provider's token endpoint. It is stateless: it only constructs
// and returns token material, never holding a reference to stored sessions.
//
// No retries or backoff are performed; a single failed attempt is surfaced to
// the caller as an error.
type TokenClient struct {
	httpClient   *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string
	redirectURL  string
}

// NewTokenClient creates a TokenClient from config.
func NewTokenClient(cfg config.SpotifyConfig) *TokenClient {
	return &TokenClient{
		httpClient:   resty.New().SetHeader("Accept", "application/json"),
		tokenURL:     Endpoints(cfg).TokenURL,
		clientID:     cfg.GetClientID(),
		clientSecret: cfg.GetClientSecret(),
		redirectURL:  cfg.GetRedirectURL(),
	}
}

// ExchangeCode trades an authorization code for token material.
func (c *TokenClient) ExchangeCode(ctx context.Context, code string) (TokenResult, error) {
	result, err := c.post(ctx, map[string]string{
		"grant_type":    "authorization_code",
		"code":          code,
		"redirect_uri":  c.redirectURL,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return TokenResult{}, err
	}
	if result.RefreshToken == "" {
		return TokenResult{}, fmt.Errorf("%w: code exchange response missing refresh_token", apperrors.ErrMalformedResponse)
	}
	return result, nil
}

// Refresh mints new token material from a refresh token. The provider may
// omit refresh_token in the response; the returned RefreshToken is then
// empty and the previous one remains valid.
func (c *TokenClient) Refresh(ctx context.Context, refreshToken string) (TokenResult, error) {
	return c.post(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     c.clientID,
	})
}

func (c *TokenClient) post(ctx context.Context, form map[string]string) (TokenResult, error) {
	var result TokenResult
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		Post(c.tokenURL)
	if err != nil {
		return TokenResult{}, apperrors.Wrapf(apperrors.ErrUpstream, "token endpoint %s unreachable: %v", form["grant_type"], err)
	}
	if res.IsError() {
		return TokenResult{}, fmt.Errorf("%w: token endpoint returned status %d", apperrors.ErrUpstream, res.StatusCode())
	}
	if result.AccessToken == "" || result.ExpiresIn <= 0 {
		return TokenResult{}, fmt.Errorf("%w: token response missing access_token or expires_in", apperrors.ErrMalformedResponse)
	}
	return result, nil
}

package spotify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/chessturo/SpotifyInsights/internal/errors"
)

// Artist is the slice of an artist object the gateway consumes.
type Artist struct {
	Name string `json:"name"`
}

// Track holds the fields of a Spotify track the demo page displays.
type Track struct {
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
}

func (t Track) String() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return t.Name + " - " + strings.Join(names, ", ")
}

type recentlyPlayedResponse struct {
	Items []struct {
		Track Track `json:"track"`
	} `json:"items"`
}

// Client calls the provider's resource API with a bearer access token. The
// token is passed per request because token material lives in the session
// store, not here.
type Client struct {
	httpClient *resty.Client
	baseURL    string
}

// NewClient creates a resource API client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
		baseURL: baseURL,
	}
}

// GetRecentlyPlayed returns up to limit of the user's most recently played
// tracks.
func (c *Client) GetRecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]Track, error) {
	result := &recentlyPlayedResponse{}
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(result).
		Get("/me/player/recently-played")
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrUpstream, "recently played request failed: %v", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: resource API returned status %d", apperrors.ErrUpstream, res.StatusCode())
	}

	tracks := make([]Track, 0, len(result.Items))
	for _, item := range result.Items {
		tracks = append(tracks, item.Track)
	}
	return tracks, nil
}

package sessions

import "time"

// Session binds one authenticated browser (via its cookie) to token material
// for the provider. A session expires on its own schedule, independent of the
// access token it carries.
type Session struct {
	ID             string    // Opaque high-entropy identifier, unique across live sessions
	AccessToken    string    // Bearer credential currently valid for provider API calls
	RefreshToken   string    // Long-lived credential used to mint new access tokens
	TokenExpiresAt time.Time // Access token is invalid at or after this instant
	ExpiresAt      time.Time // Session is unreachable at or after this instant; fixed at creation
	CreatedAt      time.Time
}

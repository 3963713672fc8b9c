package domain

import "time"

// AuthEventType identifies a transition on the auth-state-change stream
type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// Session is the cached copy of a session issued by the auth capability.
// The capability owns the session lifecycle; this struct is read-only state.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Expired reports whether the access token is past its expiry
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthEvent is a single message on the auth-state-change stream.
// Session is nil for AuthEventSignedOut.
type AuthEvent struct {
	Type    AuthEventType `json:"type"`
	Session *Session      `json:"session"`
}

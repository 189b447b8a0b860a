package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventTokenRevoked   EventType = "token_revoked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenRevokedPayload payload. Created is false when the token was already revoked.
type TokenRevokedPayload struct {
	RevokedUntil time.Time `json:"revoked_until"`
	Created      bool      `json:"created"`
}

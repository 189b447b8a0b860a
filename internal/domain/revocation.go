package domain

import "time"

// RevokedToken is a blacklisted bearer token kept until its original expiry.
type RevokedToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiredAt time.Time
	CreatedAt time.Time
}

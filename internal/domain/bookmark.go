package domain

import "time"

// Bookmark links a user to a saved quote.
type Bookmark struct {
	ID        string
	UserID    string
	QuoteID   string
	Quote     *Quote
	CreatedAt time.Time
}

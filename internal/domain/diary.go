package domain

import "time"

// Diary is a single journal entry written by a user.
type Diary struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

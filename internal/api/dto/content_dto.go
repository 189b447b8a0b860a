package dto

import "time"

// DiaryRequest is used for create and partial update.
type DiaryRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// DiaryResponse is the public view of a diary entry.
type DiaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteResponse is the public view of a quote.
type QuoteResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// QuestionResponse is the public view of a reflection prompt.
type QuestionResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// BookmarkResponse is a saved quote.
type BookmarkResponse struct {
	ID        string         `json:"id"`
	QuoteID   string         `json:"quote_id"`
	Quote     *QuoteResponse `json:"quote,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

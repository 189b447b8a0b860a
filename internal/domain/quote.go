package domain

// Quote is an imported quotation.
type Quote struct {
	ID      string
	Content string
	Author  string
}

// Question is an imported self-reflection prompt.
type Question struct {
	ID   string
	Text string
}

package models

import "time"

// Concept is a saved DSA explanation generated for a user.
type Concept struct {
	ID              string
	UserID          string
	Title           string
	Content         string
	MarkdownContent string
	Language        string
	Difficulty      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Explanation is the raw artifact returned by the explainer collaborator
// before it is persisted as a Concept.
type Explanation struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	MarkdownContent string `json:"markdown_content"`
}

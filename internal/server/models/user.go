// Package models contains the server-side domain types: users, saved concept
// explanations, and generated practice problems.
package models

import (
	"encoding/json"
	"time"
)

// User is the identity record. PasswordHash is never returned to clients;
// handlers project users into response DTOs instead of serializing this
// struct directly.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ProfilePhoto string // avatar storage key, empty if not set
	Level        string
	Problems     []string
	Quizzes      []string
	Profile      json.RawMessage
	CreatedAt    time.Time
}

// DefaultProfile returns the empty-state profile document a new account
// starts with. The document is opaque to the server: it is stored and
// returned as-is, mutated only through explicit profile updates.
func DefaultProfile() json.RawMessage {
	return json.RawMessage(`{"solved_problems":[],"solved_quizzes":[],"saved_items":[],"learned_concepts":[]}`)
}

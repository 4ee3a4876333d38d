package models

import "time"

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

// ChatMessage represents one entry of a tutor conversation. Conversations
// are ephemeral and live only for the duration of a session.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

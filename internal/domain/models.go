// Package domain defines the core domain models for the chat relay.
package domain

import "time"

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is a thread of messages. The title defaults to a prefix of
// the first prompt.
type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single turn in a conversation. Messages are totally ordered
// by CreatedAt within their conversation; the store guarantees the ordering
// is strictly increasing, which is what context assembly and rewind rely on.
type Message struct {
	ID             int64     `json:"id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	ConversationID int64     `json:"conversation_id"`
}

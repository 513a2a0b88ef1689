// Package store persists conversations and messages.
package store

import (
	"context"
	"time"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
)

// Store is the persistence interface for conversation and message records.
// Read methods return nil (not an error) when the row does not exist.
type Store interface {
	// CreateConversation inserts a conversation and fills in its assigned
	// id and creation timestamp.
	CreateConversation(ctx context.Context, title string) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*domain.Conversation, error)
	// ListConversations returns all conversations, newest first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id int64, title string) (*domain.Conversation, error)
	// DeleteConversation removes a conversation and all of its messages in
	// one transaction.
	DeleteConversation(ctx context.Context, id int64) error

	// CreateMessage inserts a message and fills in its assigned id and
	// timestamp. Timestamps are strictly increasing per conversation even
	// when the wall clock is coarse or concurrent requests interleave.
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessage(ctx context.Context, id int64) (*domain.Message, error)
	// ListMessages returns a conversation's messages in chronological order.
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
	// ListMessagesDesc returns a conversation's messages newest first.
	ListMessagesDesc(ctx context.Context, conversationID int64) ([]domain.Message, error)
	// DeleteMessagesFrom removes every message in the conversation with a
	// timestamp at or after cutoff and reports how many were deleted.
	DeleteMessagesFrom(ctx context.Context, conversationID int64, cutoff time.Time) (int64, error)

	Close() error
}

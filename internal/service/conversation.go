package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/adapter/ollama"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
)

// ListConversations returns all conversations, newest first.
func (s *Service) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	convs, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// ListMessages returns a conversation's messages in chronological order. A
// conversation with no messages yields an empty slice, not an error.
func (s *Service) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// RenameConversation updates a conversation's title.
func (s *Service) RenameConversation(ctx context.Context, conversationID int64, title string) (*domain.Conversation, error) {
	conv, err := s.store.UpdateConversationTitle(ctx, conversationID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to update title: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}
	return conv, nil
}

// DeleteConversation removes a conversation and all of its messages.
func (s *Service) DeleteConversation(ctx context.Context, conversationID int64) error {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}

	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	s.logger.Info("conversation deleted", zap.Int64("conversation_id", conversationID))
	return nil
}

// ListModels returns the models available on the backend. An unreachable
// backend degrades to an empty list so the UI can still render.
func (s *Service) ListModels(ctx context.Context) ([]ollama.Model, error) {
	models, err := s.upstream.ListModels(ctx)
	if err != nil {
		s.logger.Warn("failed to list models", zap.Error(err))
		return []ollama.Model{}, nil
	}
	return models, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/adapter/ollama"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
)

// titleMaxChars bounds auto-generated conversation titles.
const titleMaxChars = 50

// Turn is the persisted front half of a generation turn: the conversation it
// belongs to and the user message that triggered it. The assistant half is
// produced later by StreamReply.
type Turn struct {
	Conversation *domain.Conversation
	UserMessage  *domain.Message
}

// EmitFunc delivers one outward stream event to the consumer. A non-nil
// return means the consumer is gone and the stream should wind down.
type EmitFunc func(event any) error

// Chat prepares a new generation turn: admit the prompt, resolve or create
// the conversation, and persist the user message. The reply itself is
// streamed separately via StreamReply.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*Turn, error) {
	if err := s.admit(ctx, req.Model, req.Prompt); err != nil {
		return nil, err
	}

	var conv *domain.Conversation
	var err error
	if req.ConversationID == nil {
		conv, err = s.store.CreateConversation(ctx, titleFromPrompt(req.Prompt))
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		s.logger.Info("conversation created",
			zap.Int64("conversation_id", conv.ID),
			zap.String("title", conv.Title))
	} else {
		conv, err = s.store.GetConversation(ctx, *req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("failed to get conversation: %w", err)
		}
		if conv == nil {
			return nil, fmt.Errorf("conversation %d: %w", *req.ConversationID, domain.ErrNotFound)
		}
	}

	userMsg := &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Content:        req.Prompt,
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	return &Turn{Conversation: conv, UserMessage: userMsg}, nil
}

// Regenerate rewinds a conversation to just before an existing user message
// and starts a fresh turn from a replacement prompt. The target message and
// everything after it are deleted; the replacement lands after the surviving
// prefix.
func (s *Service) Regenerate(ctx context.Context, req domain.RegenerateRequest) (*Turn, error) {
	if err := s.admit(ctx, req.Model, req.NewPrompt); err != nil {
		return nil, err
	}

	original, err := s.store.GetMessage(ctx, req.MessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	// Only user messages are regeneration targets; anything else is treated
	// as absent rather than leaked.
	if original == nil || original.Role != domain.RoleUser {
		return nil, fmt.Errorf("user message %d: %w", req.MessageID, domain.ErrNotFound)
	}

	conv, err := s.store.GetConversation(ctx, original.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %d: %w", original.ConversationID, domain.ErrNotFound)
	}

	deleted, err := s.store.DeleteMessagesFrom(ctx, conv.ID, original.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to rewind conversation: %w", err)
	}
	s.logger.Info("conversation rewound",
		zap.Int64("conversation_id", conv.ID),
		zap.Int64("deleted_messages", deleted),
		zap.Time("cutoff", original.CreatedAt))

	newMsg := &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Content:        req.NewPrompt,
	}
	if err := s.store.CreateMessage(ctx, newMsg); err != nil {
		return nil, fmt.Errorf("failed to save replacement message: %w", err)
	}

	return &Turn{Conversation: conv, UserMessage: newMsg}, nil
}

// StreamReply assembles the context window, relays the backend's stream as
// delta events, and persists the assistant message once the backend reports
// completion. Exactly one terminal-shaped event (done or error) is emitted
// unless the consumer disappears first. On any error path nothing is
// persisted.
func (s *Service) StreamReply(ctx context.Context, conversationID int64, model string, emit EmitFunc) error {
	streamID := "chat_" + uuid.New().String()[:8]

	window, chars, err := s.assembleContext(ctx, conversationID)
	if err != nil {
		err = fmt.Errorf("failed to assemble context: %w", err)
		emit(domain.ErrorEvent{Error: err.Error()})
		return err
	}
	s.logger.Info("context assembled",
		zap.String("stream_id", streamID),
		zap.Int64("conversation_id", conversationID),
		zap.String("model", model),
		zap.Int("messages", len(window)),
		zap.Int("chars", chars))

	// Once emit fails the consumer is gone; keep draining the upstream read
	// loop state machine but stop writing, and suppress the terminal event.
	emitFailed := false
	send := func(event any) error {
		if err := emit(event); err != nil {
			emitFailed = true
			return err
		}
		return nil
	}

	var reply strings.Builder
	var assistantMsg *domain.Message

	upErr := s.upstream.ChatStream(ctx, &ollama.ChatRequest{
		Model:    model,
		Messages: window,
		Stream:   true,
	}, func(chunk *ollama.ChatChunk) error {
		if chunk.Message.Content != "" {
			reply.WriteString(chunk.Message.Content)
			if err := send(domain.DeltaEvent{Content: chunk.Message.Content}); err != nil {
				return err
			}
		}
		if chunk.Done {
			msg := &domain.Message{
				ConversationID: conversationID,
				Role:           domain.RoleAssistant,
				Content:        reply.String(),
			}
			if err := s.store.CreateMessage(ctx, msg); err != nil {
				return fmt.Errorf("failed to save assistant message: %w", err)
			}
			assistantMsg = msg
			return send(domain.DoneEvent{Done: true, Message: msg})
		}
		return nil
	})

	if upErr != nil {
		s.logger.Error("stream failed",
			zap.String("stream_id", streamID),
			zap.Int64("conversation_id", conversationID),
			zap.Error(upErr))
		if emitFailed || ctx.Err() != nil {
			return upErr
		}
		var statusErr *ollama.StatusError
		if errors.As(upErr, &statusErr) {
			send(domain.ErrorEvent{Error: fmt.Sprintf("upstream error: %s", statusErr.Body)})
		} else {
			send(domain.ErrorEvent{Error: upErr.Error()})
		}
		return upErr
	}

	if assistantMsg == nil {
		// The backend closed the stream without ever flagging done. Nothing
		// was persisted, but the consumer still needs a terminal event.
		err := errors.New("upstream closed stream before completion")
		s.logger.Error("stream truncated",
			zap.String("stream_id", streamID),
			zap.Int64("conversation_id", conversationID))
		if !emitFailed && ctx.Err() == nil {
			send(domain.ErrorEvent{Error: err.Error()})
		}
		return err
	}

	s.logger.Info("stream completed",
		zap.String("stream_id", streamID),
		zap.Int64("conversation_id", conversationID),
		zap.Int64("message_id", assistantMsg.ID),
		zap.Int("reply_chars", len(assistantMsg.Content)))
	return nil
}

func titleFromPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= titleMaxChars {
		return prompt
	}
	return string(runes[:titleMaxChars])
}

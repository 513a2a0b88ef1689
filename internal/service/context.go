package service

import (
	"context"
	"slices"
	"unicode/utf8"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/adapter/ollama"
)

// assembleContext builds the context window for one generation turn: walk the
// conversation's messages newest first, admit whole messages while they fit
// the character budget, then flip to the chronological order the backend
// expects. Returns the window and its total character count.
//
// Inclusion is decided at message granularity; individual messages are never
// truncated. A newest message that alone exceeds the budget therefore yields
// an empty window.
func (s *Service) assembleContext(ctx context.Context, conversationID int64) ([]ollama.ChatMessage, int, error) {
	history, err := s.store.ListMessagesDesc(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}

	budget := s.config.ContextCharBudget
	window := make([]ollama.ChatMessage, 0, len(history))
	chars := 0
	for _, msg := range history {
		n := utf8.RuneCountInString(msg.Content)
		if chars+n > budget {
			break
		}
		window = append(window, ollama.ChatMessage{Role: string(msg.Role), Content: msg.Content})
		chars += n
	}

	slices.Reverse(window)
	return window, chars, nil
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/adapter/ollama"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
)

func seedMessages(t *testing.T, svc *Service, contents ...string) int64 {
	t.Helper()
	ctx := context.Background()

	conv, err := svc.store.CreateConversation(ctx, "test")
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	role := domain.RoleUser
	for _, content := range contents {
		msg := &domain.Message{ConversationID: conv.ID, Role: role, Content: content}
		if err := svc.store.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("failed to create message: %v", err)
		}
		if role == domain.RoleUser {
			role = domain.RoleAssistant
		} else {
			role = domain.RoleUser
		}
	}
	return conv.ID
}

func TestAssembleContextAllFit(t *testing.T) {
	svc := newTestService(t, &ollama.MockClient{})
	id := seedMessages(t, svc, "one", "two", "three")

	window, chars, err := svc.assembleContext(context.Background(), id)
	if err != nil {
		t.Fatalf("assembleContext failed: %v", err)
	}
	if len(window) != 3 {
		t.Fatalf("expected full history, got %+v", window)
	}
	// Chronological order, alternating roles.
	if window[0].Content != "one" || window[2].Content != "three" {
		t.Fatalf("window out of order: %+v", window)
	}
	if window[0].Role != "user" || window[1].Role != "assistant" {
		t.Fatalf("unexpected roles: %+v", window)
	}
	if chars != len("one")+len("two")+len("three") {
		t.Fatalf("unexpected char count: %d", chars)
	}
}

func TestAssembleContextDropsOldest(t *testing.T) {
	svc := newTestService(t, &ollama.MockClient{})
	svc.config.ContextCharBudget = 10

	id := seedMessages(t, svc, "aaaaaa", "bbbb", "cccc")

	window, chars, err := svc.assembleContext(context.Background(), id)
	if err != nil {
		t.Fatalf("assembleContext failed: %v", err)
	}
	// Newest-first walk admits "cccc" (4) and "bbbb" (8); "aaaaaa" would
	// overflow and the walk stops.
	if len(window) != 2 {
		t.Fatalf("expected 2 messages, got %+v", window)
	}
	if window[0].Content != "bbbb" || window[1].Content != "cccc" {
		t.Fatalf("unexpected window: %+v", window)
	}
	if chars != 8 {
		t.Fatalf("unexpected char count: %d", chars)
	}
}

func TestAssembleContextOversizedNewest(t *testing.T) {
	svc := newTestService(t, &ollama.MockClient{})
	svc.config.ContextCharBudget = 10

	id := seedMessages(t, svc, "short", strings.Repeat("y", 11))

	window, chars, err := svc.assembleContext(context.Background(), id)
	if err != nil {
		t.Fatalf("assembleContext failed: %v", err)
	}
	// Messages are admitted whole and the walk stops at the first overflow,
	// so a newest message over budget yields an empty window.
	if len(window) != 0 || chars != 0 {
		t.Fatalf("expected empty window, got %+v (chars=%d)", window, chars)
	}
}

func TestAssembleContextCountsRunes(t *testing.T) {
	svc := newTestService(t, &ollama.MockClient{})
	svc.config.ContextCharBudget = 3

	id := seedMessages(t, svc, "héé") // 3 runes, 5 bytes

	window, chars, err := svc.assembleContext(context.Background(), id)
	if err != nil {
		t.Fatalf("assembleContext failed: %v", err)
	}
	if len(window) != 1 || chars != 3 {
		t.Fatalf("budget must count runes, not bytes: %+v (chars=%d)", window, chars)
	}
}

func TestAssembleContextEmptyConversation(t *testing.T) {
	svc := newTestService(t, &ollama.MockClient{})
	id := seedMessages(t, svc)

	window, chars, err := svc.assembleContext(context.Background(), id)
	if err != nil {
		t.Fatalf("assembleContext failed: %v", err)
	}
	if len(window) != 0 || chars != 0 {
		t.Fatalf("expected empty window, got %+v", window)
	}
}

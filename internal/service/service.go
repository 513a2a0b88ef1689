// Package service implements the chat relay's core logic: context assembly,
// the streaming relay, and history rewind.
package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/adapter/ollama"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/config"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/store"
	"github.com/RealSeaberry/Local-LLM-Chat/policy"
)

// Service coordinates the store, the upstream backend, and the admission
// policy. All state lives in the store; the service itself is stateless and
// safe for concurrent use.
type Service struct {
	store    store.Store
	upstream ollama.UpstreamClient
	policy   *policy.Engine
	config   *config.Config
	logger   *zap.Logger
}

// New creates a new service.
func New(st store.Store, upstream ollama.UpstreamClient, policyEngine *policy.Engine, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		upstream: upstream,
		policy:   policyEngine,
		config:   cfg,
		logger:   logger,
	}
}

// admit runs the admission policy against a prompt before any write.
func (s *Service) admit(ctx context.Context, model, prompt string) error {
	decision, err := s.policy.Evaluate(ctx, policy.Input{
		Model:       model,
		PromptChars: utf8.RuneCountInString(prompt),
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if decision == "block" {
		return fmt.Errorf("prompt rejected: %w", domain.ErrPolicyBlocked)
	}
	return nil
}

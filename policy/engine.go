// Package policy provides OPA-based admission checks for chat requests.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is the admission input for one chat or regenerate request.
type Input struct {
	Model       string `json:"model"`
	PromptChars int    `json:"prompt_chars"`
}

// Evaluate checks the chat admission policy and returns the decision
// ("allow" or "block"). Requests are checked before any write or upstream
// call.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy is expected to define a default.
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// DefaultPolicy is the default admission policy: allow everything except
// prompts so large they would dwarf any context budget.
const DefaultPolicy = `
package chat_policy

default decision = "allow"

decision = "block" {
	input.prompt_chars > 65536
}
`

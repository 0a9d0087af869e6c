package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Gate decisions returned by the engine.
const (
	GateAllow        = "allow"
	GateMessageCap   = "message_cap"
	GateExpired      = "expired"
	GateLimitReached = "limit_reached"
)

// Engine is the OPA engine evaluating the send-gate policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a gate engine from the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.session_gate.decision"),
		rego.Module("session_gate.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// GateInput is the evaluation input. Fields mirror the rego policy.
type GateInput struct {
	Tier             string  `json:"tier"`
	Registered       bool    `json:"registered"`
	MessagesUsed     int     `json:"messages_used"`
	MaxMessages      int     `json:"max_messages"`
	ElapsedMinutes   float64 `json:"elapsed_minutes"`
	LimitMinutes     float64 `json:"limit_minutes"`
	MorningCompleted bool    `json:"morning_completed"`
	EveningCompleted bool    `json:"evening_completed"`
}

// Evaluate returns one of the Gate* decisions for the input.
func (e *Engine) Evaluate(ctx context.Context, in GateInput) (string, error) {
	input := map[string]interface{}{
		"tier":              in.Tier,
		"registered":        in.Registered,
		"messages_used":     in.MessagesUsed,
		"max_messages":      in.MaxMessages,
		"elapsed_minutes":   in.ElapsedMinutes,
		"limit_minutes":     in.LimitMinutes,
		"morning_completed": in.MorningCompleted,
		"evening_completed": in.EveningCompleted,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return GateAllow, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return GateAllow, nil
}

// DefaultGatePolicy encodes the lifecycle gating rules. limit_reached takes
// precedence over expired, which takes precedence over the message cap.
const DefaultGatePolicy = `
package session_gate

import rego.v1

default decision := "allow"

limit_reached if {
	input.registered
	input.tier == "free"
	input.morning_completed
	input.evening_completed
}

expired if {
	input.tier == "free"
	input.elapsed_minutes > input.limit_minutes
}

capped if {
	input.max_messages >= 0
	input.messages_used >= input.max_messages
}

decision := "limit_reached" if limit_reached

decision := "expired" if {
	not limit_reached
	expired
}

decision := "message_cap" if {
	not limit_reached
	not expired
	capped
}
`

package providers

import (
	"context"
)

// ChatTurn is one message in a model conversation
type ChatTurn struct {
	Role    string
	Content string
}

// CompletionRequest is a single-shot completion with an optional system frame
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// AIProvider abstracts the language-model backend. Callers must treat every
// error as "no output" and fall back to deterministic behaviour.
type AIProvider interface {
	// Complete runs a one-shot completion (planner path)
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ChatComplete runs a multi-turn conversation (responder path)
	ChatComplete(ctx context.Context, turns []ChatTurn, maxTokens int, temperature float64) (string, error)
}

// Package providers implements the external model clients the comparison
// engine delegates to: chat completion for LLM-judged comparison and
// embedding generation for semantic comparison. The engine itself depends
// only on narrow capability interfaces; everything SDK-specific lives here.
package providers

import (
	"context"
	"time"
)

// LLMClient is the chat-completion interface for judge calls.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// EmbeddingClient produces vector representations of text.
type EmbeddingClient interface {
	// Embed returns the embedding for one text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Name returns the client identifier.
	Name() string
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	System  string `json:"system,omitempty"`
	Content string `json:"content"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Timeout     time.Duration `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	Attempts  int    `json:"attempts"`
}

package providers

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"match": true, "score": 1.0, "reason": "mock verdict"}`,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat sends a mock chat request.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.ShouldFail {
		return nil, fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	promptTokens := (len(req.System) + len(req.Content)) / 4 // Rough estimate
	completionTokens := len(c.ResponseText) / 4

	return &ChatResult{
		Content:          c.ResponseText,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		ExecutionTime:    time.Since(start),
		Provider:         MockClientName,
		ModelUsed:        model,
		Attempts:         1,
	}, nil
}

// Generate satisfies the engine's text-generation capability.
func (c *MockClient) Generate(ctx context.Context, systemPrompt, content string) (string, error) {
	result, err := c.Chat(ctx, &ChatRequest{System: systemPrompt, Content: content})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

var _ LLMClient = (*MockClient)(nil)

// MockEmbedder is an EmbeddingClient for testing. It derives a small
// deterministic vector from the text so equal strings embed identically and
// different strings (almost always) do not.
type MockEmbedder struct {
	ShouldFail bool
	Dimensions int

	requestCount atomic.Int64
}

// NewMockEmbedder creates a new mock embedder.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dimensions: 8}
}

// Name returns the client identifier.
func (e *MockEmbedder) Name() string {
	return "mock-embedder"
}

// Embed returns a deterministic vector for the text.
func (e *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.requestCount.Add(1)

	if e.ShouldFail {
		return nil, fmt.Errorf("mock embedder configured to fail")
	}

	dims := e.Dimensions
	if dims <= 0 {
		dims = 8
	}

	vec := make([]float64, dims)
	for i := range vec {
		h := fnv.New64a()
		fmt.Fprintf(h, "%d:%s", i, text)
		vec[i] = float64(h.Sum64()%1000)/500.0 - 1.0
	}
	return vec, nil
}

// RequestCount returns the number of requests made.
func (e *MockEmbedder) RequestCount() int64 {
	return e.requestCount.Load()
}

var _ EmbeddingClient = (*MockEmbedder)(nil)

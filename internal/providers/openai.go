package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName = "openai"

	openAIDefaultModel          = "gpt-4o-mini"
	openAIDefaultEmbeddingModel = "text-embedding-3-small"
	openAIDefaultTimeout        = 120 * time.Second
	openAIDefaultMaxTokens      = 1024
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey         string
	Model          string        // chat model for judge calls
	EmbeddingModel string        // model for semantic embeddings
	Temperature    float64       // judge temperature (default 0)
	RateLimit      int           // requests per minute
	MaxRetries     int           // transient-error retry attempts
	Timeout        time.Duration // HTTP timeout
	BaseURL        string        // Optional (tests, compatible endpoints)
	HTTPClient     *http.Client  // Optional (tests)
}

// OpenAIClient implements LLMClient and EmbeddingClient over the official
// SDK, with shared token-bucket rate limiting and retries around transient
// failures.
type OpenAIClient struct {
	model          string
	embeddingModel string
	temperature    float64
	maxRetries     int
	limiter        *RateLimiter
	client         openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = openAIDefaultEmbeddingModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = openAIDefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		maxRetries:     cfg.MaxRetries,
		limiter:        NewRateLimiter(cfg.RateLimit),
		client:         openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = openAIDefaultMaxTokens
	}

	start := time.Now()
	attempts := 0

	var completion *openai.ChatCompletion
	err := retry.Do(
		func() error {
			attempts++
			var err error
			completion, err = c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(req.System),
					openai.UserMessage(req.Content),
				},
				Temperature:         openai.Float(req.Temperature),
				MaxCompletionTokens: openai.Int(int64(maxTokens)),
			})
			return err
		},
		retry.Attempts(uint(c.maxRetries)),
		retry.Context(ctx),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed after %d attempts: %w", attempts, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &ChatResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		Provider:         OpenAIName,
		ModelUsed:        model,
		Attempts:         attempts,
	}, nil
}

// Embed returns the embedding for one text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	var resp *openai.CreateEmbeddingResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
				Model: openai.EmbeddingModel(c.embeddingModel),
				Input: openai.EmbeddingNewParamsInputUnion{
					OfString: openai.String(text),
				},
			})
			return err
		},
		retry.Attempts(uint(c.maxRetries)),
		retry.Context(ctx),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}
	return resp.Data[0].Embedding, nil
}

// Generate satisfies the comparison engine's text-generation capability:
// one system prompt, one user message, text out.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, content string) (string, error) {
	result, err := c.Chat(ctx, &ChatRequest{
		System:      systemPrompt,
		Content:     content,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// RateLimiterStatus returns the current limiter state.
func (c *OpenAIClient) RateLimiterStatus() RateLimiterStatus {
	return c.limiter.Status()
}

// SetRateLimit applies a new requests-per-minute limit to the shared
// chat/embedding limiter, typically on a config reload.
func (c *OpenAIClient) SetRateLimit(requestsPerMinute int) {
	c.limiter.SetRate(requestsPerMinute)
}

var (
	_ LLMClient       = (*OpenAIClient)(nil)
	_ EmbeddingClient = (*OpenAIClient)(nil)
)

package providers

import (
	"fmt"
	"time"
)

// RegistryConfig is the provider section of the application config, already
// resolved (API keys expanded from the environment).
type RegistryConfig struct {
	// Type selects the client implementation: "openai" or "mock".
	Type string

	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	Temperature    float64
	RateLimit      int
	MaxRetries     int
	Timeout        time.Duration
}

// Registry holds the constructed clients for one evaluation run.
type Registry struct {
	LLM      LLMClient
	Embedder EmbeddingClient
}

// NewRegistry builds provider clients from config. The mock type exists for
// offline runs and tests; anything else requires an API key.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	switch cfg.Type {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an api key")
		}
		client := NewOpenAIClient(OpenAIConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			EmbeddingModel: cfg.EmbeddingModel,
			Temperature:    cfg.Temperature,
			RateLimit:      cfg.RateLimit,
			MaxRetries:     cfg.MaxRetries,
			Timeout:        cfg.Timeout,
		})
		return &Registry{LLM: client, Embedder: client}, nil

	case "mock":
		return &Registry{LLM: NewMockClient(), Embedder: NewMockEmbedder()}, nil

	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}

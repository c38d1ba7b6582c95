package config

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:           "openai",
			APIKey:         "${OPENAI_API_KEY}",
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.0,
			RateLimit:      150,
			MaxRetries:     3,
			TimeoutSeconds: 120,
		},
		Evaluation: EvaluationConfig{
			MaxWorkers:   5,
			FieldWorkers: 5,
		},
	}
}

// Package config loads and hot-reloads the application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/docuverify/fieldcheck/internal/providers"
)

// Config is the full application configuration.
type Config struct {
	Provider   ProviderConfig   `mapstructure:"provider" yaml:"provider"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" yaml:"evaluation"`
}

// ProviderConfig configures the external model clients.
type ProviderConfig struct {
	Type           string  `mapstructure:"type" yaml:"type"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Model          string  `mapstructure:"model" yaml:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model" yaml:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	RateLimit      int     `mapstructure:"rate_limit" yaml:"rate_limit"`
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// EvaluationConfig configures the evaluation driver.
type EvaluationConfig struct {
	MaxWorkers         int  `mapstructure:"max_workers" yaml:"max_workers"`
	FieldWorkers       int  `mapstructure:"field_workers" yaml:"field_workers"`
	FatalSectionErrors bool `mapstructure:"fatal_section_errors" yaml:"fatal_section_errors"`
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("provider", defaults.Provider)
	viper.SetDefault("evaluation", defaults.Evaluation)

	// Environment variables with FIELDCHECK_ prefix
	viper.SetEnvPrefix("FIELDCHECK")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.fieldcheck")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToRegistryConfig converts the provider section to a providers.RegistryConfig,
// resolving ${ENV_VAR} references in the API key.
func (c *Config) ToRegistryConfig() providers.RegistryConfig {
	return providers.RegistryConfig{
		Type:           c.Provider.Type,
		APIKey:         ResolveEnvVars(c.Provider.APIKey),
		BaseURL:        c.Provider.BaseURL,
		Model:          c.Provider.Model,
		EmbeddingModel: c.Provider.EmbeddingModel,
		Temperature:    c.Provider.Temperature,
		RateLimit:      c.Provider.RateLimit,
		MaxRetries:     c.Provider.MaxRetries,
		Timeout:        time.Duration(c.Provider.TimeoutSeconds) * time.Second,
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# fieldcheck configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

package llm

import (
	"fmt"
	"time"

	"github.com/kbukum/lecturekit/provider"
)

// Config selects and configures a chat backend.
type Config struct {
	// Provider selects a registered backend ("openai").
	Provider string `yaml:"provider" mapstructure:"provider"`
	// BaseURL overrides the API base URL for OpenAI-compatible servers.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	// Model is the default model, e.g. "gpt-4".
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	// MaxTokens is the default response limit. 0 means backend default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	// Timeout bounds the HTTP client. Per-call deadlines come from the
	// caller's context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Resilience provider.ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Model == "" {
		c.Model = "gpt-4"
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
}

// Validate checks the fields a backend cannot work without.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.Provider == "openai" && c.APIKey == "" && c.BaseURL == "" {
		return fmt.Errorf("llm: api_key is required for the openai provider")
	}
	return nil
}

package transcription

import (
	"fmt"
	"time"

	"github.com/kbukum/lecturekit/provider"
)

// Provider is a speech-to-text backend.
type Provider = provider.RequestResponse[Request, Response]

// Config selects and configures a backend.
type Config struct {
	// Provider selects a registered backend ("whisper", "openai").
	Provider string `yaml:"provider" mapstructure:"provider"`
	// URL is the base URL of a faster-whisper sidecar.
	URL string `yaml:"url" mapstructure:"url"`
	// BaseURL and APIKey configure OpenAI-compatible backends.
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Resilience provider.ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "whisper"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Minute
	}
}

// Validate checks the backend can be built.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.APIKey == "" && c.BaseURL == "" {
			return fmt.Errorf("transcription: api_key is required for the openai provider")
		}
	case "":
		return fmt.Errorf("transcription: provider is required")
	}
	return nil
}

var registry = provider.NewRegistry[Config, Provider]()

// Register makes a backend available to New under name.
func Register(name string, factory provider.Factory[Config, Provider]) {
	registry.RegisterFactory(name, factory)
}

// New builds the backend named by cfg.Provider.
func New(cfg Config) (Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return registry.Create(cfg.Provider, cfg)
}

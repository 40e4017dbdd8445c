package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/lecturekit/provider"
)

// Embedder maps a batch of texts to one vector each, in input order.
type Embedder = provider.RequestResponse[[]string, [][]float32]

// Config selects and configures an embedding backend.
type Config struct {
	// Provider selects a registered backend ("openai", "onnx").
	Provider string `yaml:"provider" mapstructure:"provider"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`

	// ModelPath, TokenizerPath and SharedLibraryPath configure the onnx backend.
	ModelPath         string `yaml:"model_path" mapstructure:"model_path"`
	TokenizerPath     string `yaml:"tokenizer_path" mapstructure:"tokenizer_path"`
	SharedLibraryPath string `yaml:"shared_library_path" mapstructure:"shared_library_path"`
	// MaxSeqLen truncates each input; MaxBatchTokens caps padded tokens per run.
	MaxSeqLen      int `yaml:"max_seq_len" mapstructure:"max_seq_len"`
	MaxBatchTokens int `yaml:"max_batch_tokens" mapstructure:"max_batch_tokens"`

	Timeout    time.Duration             `yaml:"timeout" mapstructure:"timeout"`
	Resilience provider.ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "onnx"
	}
	if c.MaxSeqLen <= 0 {
		c.MaxSeqLen = 256
	}
	if c.MaxBatchTokens <= 0 {
		c.MaxBatchTokens = 8192
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Validate checks the fields the selected backend needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case "":
		return fmt.Errorf("embedding: provider is required")
	case "openai":
		if c.APIKey == "" && c.BaseURL == "" {
			return fmt.Errorf("embedding: api_key is required for the openai provider")
		}
	case "onnx":
		if c.ModelPath == "" || c.TokenizerPath == "" {
			return fmt.Errorf("embedding: model_path and tokenizer_path are required for the onnx provider")
		}
	}
	return nil
}

var registry = provider.NewRegistry[Config, Embedder]()

// Register makes a backend available to New under name.
func Register(name string, factory provider.Factory[Config, Embedder]) {
	registry.RegisterFactory(name, factory)
}

// New builds the backend named by cfg.Provider, wrapped in the configured
// resilience policies.
func New(cfg Config) (Embedder, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e, err := registry.Create(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	return provider.WithResilience(e, cfg.Resilience), nil
}

// Embed runs e and checks that it returned exactly one vector per text.
// An empty batch returns an empty result without calling e.
func Embed(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := e.Execute(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding: %s returned %d vectors for %d texts", e.Name(), len(vectors), len(texts))
	}
	return vectors, nil
}

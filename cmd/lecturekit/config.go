package main

import (
	"fmt"
	"time"

	"github.com/kbukum/lecturekit/cache"
	"github.com/kbukum/lecturekit/config"
	"github.com/kbukum/lecturekit/embedding"
	"github.com/kbukum/lecturekit/lecture"
	"github.com/kbukum/lecturekit/llm"
	"github.com/kbukum/lecturekit/media"
	"github.com/kbukum/lecturekit/observability"
	"github.com/kbukum/lecturekit/redis"
	"github.com/kbukum/lecturekit/server"
	"github.com/kbukum/lecturekit/summarizer"
	"github.com/kbukum/lecturekit/transcription"
)

// Token counters for summary chunking.
const (
	TokenizerTiktoken = "tiktoken"
	TokenizerHF       = "hf"
	TokenizerWords    = "words"
)

// Config is the lecturekit service configuration, loaded from config.yml,
// .env and the environment (LLM_API_KEY sets llm.api_key).
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Cache         CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Lecture       lecture.Config       `yaml:"lecture" mapstructure:"lecture"`
	LLM           llm.Config           `yaml:"llm" mapstructure:"llm"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Embedding     embedding.Config     `yaml:"embedding" mapstructure:"embedding"`
	Summarizer    SummarizerConfig     `yaml:"summarizer" mapstructure:"summarizer"`
	Media         media.Config         `yaml:"media" mapstructure:"media"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// CacheConfig controls result reuse. Redis is used when redis.enabled is
// set, otherwise an in-process store.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool          `yaml:"disabled" mapstructure:"disabled"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// SummarizerConfig adds the chunk token counter to summarizer.Config.
type SummarizerConfig struct {
	summarizer.Config `yaml:",inline" mapstructure:",squash"`

	// Tokenizer is "tiktoken" (default), "hf" or "words".
	Tokenizer string `yaml:"tokenizer" mapstructure:"tokenizer"`
	// TokenizerModel selects the tiktoken encoding by model name.
	TokenizerModel string `yaml:"tokenizer_model" mapstructure:"tokenizer_model"`
	// TokenizerPath is a HuggingFace tokenizer.json for "hf".
	TokenizerPath string `yaml:"tokenizer_path" mapstructure:"tokenizer_path"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Redis.Enabled {
		c.Redis.ApplyDefaults()
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = cache.DefaultTTL
	}
	c.Lecture.TTL = c.Cache.TTL
	c.Lecture.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	if c.Lecture.Language == "" {
		c.Lecture.Language = c.Transcription.Language
	}
	c.Embedding.ApplyDefaults()
	if c.Summarizer.Tokenizer == "" {
		c.Summarizer.Tokenizer = TokenizerTiktoken
	}
	if c.Summarizer.TokenizerModel == "" {
		c.Summarizer.TokenizerModel = c.LLM.Model
	}
	c.Media.ApplyDefaults()

	c.Observability.ApplyDefaults()
	c.Observability.ServiceName = c.Name
	c.Observability.ServiceVersion = c.Version
	c.Observability.Environment = c.Environment
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Transcription.Validate(); err != nil {
		return err
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	switch c.Summarizer.Tokenizer {
	case TokenizerTiktoken, TokenizerWords:
	case TokenizerHF:
		if c.Summarizer.TokenizerPath == "" {
			return fmt.Errorf("summarizer: tokenizer_path is required for the hf tokenizer")
		}
	default:
		return fmt.Errorf("summarizer: unknown tokenizer %q", c.Summarizer.Tokenizer)
	}
	return nil
}

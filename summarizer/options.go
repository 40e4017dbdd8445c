package summarizer

import (
	"time"

	"github.com/kbukum/lecturekit/chunker"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/resilience"
)

// Defaults.
const (
	DefaultConcurrency = 4
	DefaultCallTimeout = 120 * time.Second
)

// Config mirrors the options for loading from a config file.
type Config struct {
	MaxTokens   int                     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Concurrency int                     `yaml:"concurrency" mapstructure:"concurrency"`
	CallTimeout time.Duration           `yaml:"call_timeout" mapstructure:"call_timeout"`
	Retry       *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// Options returns the options that apply cfg. Zero fields keep defaults.
func (c Config) Options() []Option {
	var opts []Option
	if c.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(c.MaxTokens))
	}
	if c.Concurrency > 0 {
		opts = append(opts, WithConcurrency(c.Concurrency))
	}
	if c.CallTimeout > 0 {
		opts = append(opts, WithCallTimeout(c.CallTimeout))
	}
	if c.Retry != nil {
		opts = append(opts, WithRetry(*c.Retry))
	}
	return opts
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithMaxTokens sets the per-chunk token budget.
func WithMaxTokens(n int) Option {
	return func(s *Summarizer) { s.chunker.MaxTokens = n }
}

// WithTokenCounter sets how chunk budgets are measured.
func WithTokenCounter(c chunker.TokenCounter) Option {
	return func(s *Summarizer) { s.chunker.Counter = c }
}

// WithConcurrency bounds the number of chunk summaries in flight.
func WithConcurrency(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithCallTimeout bounds each model call attempt.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Summarizer) { s.retry.AttemptTimeout = d }
}

// WithRetry replaces the retry policy. The call timeout is kept unless cfg
// sets its own AttemptTimeout.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(s *Summarizer) {
		if cfg.AttemptTimeout <= 0 {
			cfg.AttemptTimeout = s.retry.AttemptTimeout
		}
		s.retry = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Summarizer) { s.log = l }
}

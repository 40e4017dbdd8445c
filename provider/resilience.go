package provider

import (
	"github.com/kbukum/lecturekit/resilience"
)

// ResilienceConfig bundles optional policies for a provider. Nil fields are
// skipped; an empty config is a passthrough.
type ResilienceConfig struct {
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	Retry          *resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	RateLimiter    *resilience.RateLimiterConfig    `yaml:"rate_limiter" mapstructure:"rate_limiter"`
	Bulkhead       *resilience.BulkheadConfig       `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// IsEmpty returns true if no policies are configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Retry == nil && c.RateLimiter == nil && c.Bulkhead == nil
}

// ResilienceState holds the primitives built from a ResilienceConfig. One
// state is shared by every call through the wrapped provider, so the
// bulkhead and breaker see process-wide traffic.
type ResilienceState struct {
	name     string
	cb       *resilience.CircuitBreaker
	rl       *resilience.RateLimiter
	bh       *resilience.Bulkhead
	retryCfg *resilience.RetryConfig
}

// BuildResilience creates the primitives for cfg, or nil for an empty config.
func BuildResilience(name string, cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{name: name, retryCfg: cfg.Retry}
	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		cbCfg.Name = name
		s.cb = resilience.NewCircuitBreaker(cbCfg)
	}
	if cfg.RateLimiter != nil {
		rlCfg := *cfg.RateLimiter
		rlCfg.Name = name
		s.rl = resilience.NewRateLimiter(rlCfg)
	}
	if cfg.Bulkhead != nil {
		bhCfg := *cfg.Bulkhead
		bhCfg.Name = name
		s.bh = resilience.NewBulkhead(bhCfg)
	}
	return s
}

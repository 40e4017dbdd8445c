package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/observability"
)

// EnvelopeVersion is the current cache payload format.
const EnvelopeVersion = 1

type envelope struct {
	Kind    string          `json:"kind"`
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// TypedConfig configures a Typed cache.
type TypedConfig struct {
	// TTL defaults to DefaultTTL.
	TTL     time.Duration
	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// Typed stores values of T under one kind, which is also the key namespace.
type Typed[T any] struct {
	store   Store
	kind    string
	ttl     time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewTyped creates a typed view of store for kind.
func NewTyped[T any](store Store, kind string, cfg TypedConfig) *Typed[T] {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Typed[T]{
		store:   store,
		kind:    kind,
		ttl:     ttl,
		log:     logger.OrDefault(cfg.Logger, "cache"),
		metrics: cfg.Metrics,
	}
}

// Kind returns the envelope kind.
func (c *Typed[T]) Kind() string { return c.kind }

// Get loads the value at key. A payload with the wrong kind or version, or
// one that is not valid JSON, is logged and reported as a miss. Store errors
// are returned.
func (c *Typed[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	payload, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if !ok {
		c.metrics.RecordCacheLookup(ctx, c.kind, false)
		return zero, false, nil
	}

	value, err := c.decode(payload)
	if err != nil {
		c.log.WithContext(ctx).Warn("discarding unreadable cache entry", logger.Fields(
			logger.FieldCacheKey, key,
			logger.FieldError, err.Error(),
		))
		c.metrics.RecordCacheLookup(ctx, c.kind, false)
		return zero, false, nil
	}
	c.metrics.RecordCacheLookup(ctx, c.kind, true)
	return value, true, nil
}

// Set stores value at key for the configured TTL.
func (c *Typed[T]) Set(ctx context.Context, key string, value T) error {
	payload, err := c.encode(value)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Typed[T]) encode(value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.kind, err)
	}
	return json.Marshal(envelope{Kind: c.kind, Version: EnvelopeVersion, Data: data})
}

func (c *Typed[T]) decode(payload []byte) (T, error) {
	var value T
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return value, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Kind != c.kind {
		return value, fmt.Errorf("kind %q, want %q", env.Kind, c.kind)
	}
	if env.Version != EnvelopeVersion {
		return value, fmt.Errorf("version %d, want %d", env.Version, EnvelopeVersion)
	}
	if len(env.Data) == 0 {
		return value, fmt.Errorf("empty data")
	}
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return value, fmt.Errorf("decode %s: %w", c.kind, err)
	}
	return value, nil
}

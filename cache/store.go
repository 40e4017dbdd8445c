package cache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of a cached result.
const DefaultTTL = time.Hour

// Store is a byte-level key/value cache with per-entry expiry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the payload at key. A missing or expired key is
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores payload at key for ttl. Concurrent writers to the same key
	// race; the last write wins.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Available reports whether the backend can currently serve requests.
	Available(ctx context.Context) bool
}

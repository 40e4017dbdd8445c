package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the janitor sweeps expired entries.
const DefaultCleanupInterval = 10 * time.Minute

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store backed by go-cache. Each entry carries
// its own TTL and a background janitor removes entries once they expire.
type MemoryStore struct {
	items   *gocache.Cache
	now     func() time.Time
	cleanup time.Duration
}

var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now for expiry checks on read and in Sweep, for
// tests. The janitor always runs on wall-clock time.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithCleanupInterval sets the janitor period. Zero or less disables it.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanup = d }
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{now: time.Now, cleanup: DefaultCleanupInterval}
	for _, opt := range opts {
		opt(s)
	}
	s.items = gocache.New(gocache.NoExpiration, s.cleanup)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	e := v.(memoryEntry)
	if s.expired(e) {
		s.items.Delete(key)
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

// Set stores a copy of payload. A ttl <= 0 never expires.
func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	e := memoryEntry{payload: append([]byte(nil), payload...)}
	expiration := gocache.NoExpiration
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
		expiration = ttl
	}
	s.items.Set(key, e, expiration)
	return nil
}

func (s *MemoryStore) Available(context.Context) bool { return true }

// Sweep removes every expired entry now instead of waiting for the janitor.
func (s *MemoryStore) Sweep() {
	s.items.DeleteExpired()
	for key, item := range s.items.Items() {
		if e, ok := item.Object.(memoryEntry); ok && s.expired(e) {
			s.items.Delete(key)
		}
	}
}

// Len returns the number of stored entries, including expired ones the
// janitor has not removed yet.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

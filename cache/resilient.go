package cache

import (
	"context"
	"time"

	"github.com/kbukum/lecturekit/logger"
)

type resilientStore struct {
	inner Store
	log   *logger.Logger
}

// Resilient wraps inner so that backend errors are logged at warn level and
// never returned: Get reports a miss and Set drops the write.
func Resilient(inner Store, log *logger.Logger) Store {
	return &resilientStore{inner: inner, log: logger.OrDefault(log, "cache")}
}

func (s *resilientStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, ok, err := s.inner.Get(ctx, key)
	if err != nil {
		s.log.WithContext(ctx).Warn("cache get failed, treating as miss", logger.Fields(
			logger.FieldCacheKey, key,
			logger.FieldError, err.Error(),
		))
		return nil, false, nil
	}
	return payload, ok, nil
}

func (s *resilientStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := s.inner.Set(ctx, key, payload, ttl); err != nil {
		s.log.WithContext(ctx).Warn("cache set failed, result not cached", logger.Fields(
			logger.FieldCacheKey, key,
			logger.FieldError, err.Error(),
		))
	}
	return nil
}

func (s *resilientStore) Available(ctx context.Context) bool {
	return s.inner.Available(ctx)
}

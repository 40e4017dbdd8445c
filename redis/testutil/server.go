// Package testutil starts an in-memory Redis for tests.
package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/redis"
)

// NewServer starts miniredis and returns it with a connected client. Both
// are closed when the test ends. Use the server's FastForward to expire keys.
func NewServer(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := redis.New(redis.Config{Enabled: true, Addr: mr.Addr()}, logger.NewNop())
	if err != nil {
		t.Fatalf("redis.New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

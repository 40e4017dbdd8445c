package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kbukum/lecturekit/redis/testutil"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryStore_TTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	if err := s.Set(ctx, "transcript:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatal(err)
	}

	clock.Advance(59 * time.Minute)
	got, ok, err := s.Get(ctx, "transcript:abc")
	if err != nil || !ok || string(got) != "payload" {
		t.Fatalf("expected hit within TTL, got (%q, %v, %v)", got, ok, err)
	}

	clock.Advance(time.Minute)
	if _, ok, _ := s.Get(ctx, "transcript:abc"); ok {
		t.Error("expected miss at expiry")
	}
	if s.Len() != 0 {
		t.Error("expected expired entry to be dropped")
	}
}

func TestMemoryStore_SweepDropsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now), WithCleanupInterval(0))
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_ = s.Set(ctx, fmt.Sprintf("transcript:%d", i), []byte("x"), time.Hour)
	}
	_ = s.Set(ctx, "summary:forever", []byte("y"), 0)

	clock.Advance(24 * time.Hour)
	_ = s.Set(ctx, "transcript:fresh", []byte("z"), time.Hour)
	s.Sweep()

	if s.Len() != 2 {
		t.Fatalf("expected only the live entries to remain, got %d", s.Len())
	}
	if _, ok, _ := s.Get(ctx, "summary:forever"); !ok {
		t.Error("expected non-expiring entry to survive the sweep")
	}
}

func TestMemoryStore_JanitorEvicts(t *testing.T) {
	s := NewMemoryStore(WithCleanupInterval(5 * time.Millisecond))
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_ = s.Set(ctx, fmt.Sprintf("summary:%d", i), []byte("x"), 10*time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor left %d expired entries", s.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMemoryStore_CopiesPayload(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	payload := []byte("abc")
	_ = s.Set(ctx, "k", payload, 0)
	payload[0] = 'x'

	got, _, _ := s.Get(ctx, "k")
	got[1] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored payload was aliased: %q", again)
	}
}

func TestMemoryStore_LastWriterWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, "summary:1", []byte("first"), time.Hour)
	_ = s.Set(ctx, "summary:1", []byte("second"), time.Hour)
	got, _, _ := s.Get(ctx, "summary:1")
	if string(got) != "second" {
		t.Errorf("expected last write, got %q", got)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := testutil.NewServer(t)
	s := NewRedisStore(client)
	ctx := context.Background()

	if !s.Available(ctx) {
		t.Fatal("expected store to be available")
	}
	if err := s.Set(ctx, "transcript:abc", []byte("payload"), DefaultTTL); err != nil {
		t.Fatal(err)
	}
	if got, ok, err := s.Get(ctx, "transcript:abc"); err != nil || !ok || string(got) != "payload" {
		t.Fatalf("expected hit, got (%q, %v, %v)", got, ok, err)
	}
	if ttl := mr.TTL("transcript:abc"); ttl != DefaultTTL {
		t.Errorf("expected TTL %v, got %v", DefaultTTL, ttl)
	}

	mr.FastForward(DefaultTTL)
	if _, ok, err := s.Get(ctx, "transcript:abc"); ok || err != nil {
		t.Errorf("expected clean miss after TTL, got ok=%v err=%v", ok, err)
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, client := testutil.NewServer(t)
	s := NewRedisStore(client)
	mr.Close()

	ctx := context.Background()
	if s.Available(ctx) {
		t.Error("expected store to be unavailable")
	}
	if _, _, err := s.Get(ctx, "k"); err == nil {
		t.Error("expected raw store to return an error")
	}

	r := Resilient(s, nil)
	if _, ok, err := r.Get(ctx, "k"); ok || err != nil {
		t.Errorf("expected resilient miss, got ok=%v err=%v", ok, err)
	}
	if err := r.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Errorf("expected resilient set to swallow error, got %v", err)
	}
}

func TestUnavailable(t *testing.T) {
	s := Unavailable()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Errorf("expected miss, got ok=%v err=%v", ok, err)
	}
	if s.Available(ctx) {
		t.Error("expected Available to be false")
	}
}

package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/kbukum/lecturekit/errors"
)

// RateLimit allows each client IP at most perMinute requests in any sliding
// minute and answers the rest with 429. perMinute <= 0 disables the limit.
func RateLimit(perMinute int) Middleware {
	return rateLimit(perMinute, time.Now)
}

func rateLimit(perMinute int, now func() time.Time) Middleware {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	rl := &slidingWindow{requests: make(map[string][]time.Time), limit: perMinute, now: now}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientIP(r)) {
				appErr := apperrors.RateLimited()
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(appErr.HTTPStatus)
				_ = json.NewEncoder(w).Encode(appErr.ToResponse())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type slidingWindow struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	now      func() time.Time
}

// allow records a request for key if it is within the limit. Expired
// timestamps are pruned on every call, and empty keys are dropped.
func (s *slidingWindow) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-time.Minute)
	for k, times := range s.requests {
		if k != key && (len(times) == 0 || !times[len(times)-1].After(cutoff)) {
			delete(s.requests, k)
		}
	}

	recent := s.requests[key][:0]
	for _, t := range s.requests[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= s.limit {
		s.requests[key] = recent
		return false
	}
	s.requests[key] = append(recent, now)
	return true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

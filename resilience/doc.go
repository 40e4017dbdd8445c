// Package resilience wraps calls to model backends.
//
//   - Retry: exponential backoff with jitter and an optional per-attempt timeout
//   - CircuitBreaker: fails fast while a backend keeps failing
//   - Bulkhead: caps concurrent calls to one backend
//   - RateLimiter: token bucket for metered APIs
//
// provider.WithResilience composes them around a provider.
package resilience

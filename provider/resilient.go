package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/resilience"
)

// WithResilience wraps p in the configured policies.
// Chain: RateLimiter -> Bulkhead -> CircuitBreaker -> Retry -> Execute.
func WithResilience[I, O any](p RequestResponse[I, O], cfg ResilienceConfig) RequestResponse[I, O] {
	if cfg.IsEmpty() {
		return p
	}
	return &resilientRR[I, O]{inner: p, state: BuildResilience(p.Name(), cfg)}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func(ctx context.Context) (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through the policies in s. A nil state calls
// fn directly. Policy rejections come back as AppErrors.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s == nil {
		return fn(ctx)
	}

	if s.rl != nil {
		if err := s.rl.Wait(ctx); err != nil {
			return zero, wrapResilienceError(s.name, err)
		}
	}

	call := fn
	if s.retryCfg != nil {
		retryCfg := *s.retryCfg
		call = func(ctx context.Context) (T, error) {
			return resilience.Retry(ctx, retryCfg, fn)
		}
	}

	if s.cb != nil {
		inner := call
		call = func(ctx context.Context) (T, error) {
			var result T
			var callErr error
			cbErr := s.cb.Execute(func() error {
				result, callErr = inner(ctx)
				return callErr
			})
			if cbErr != nil && callErr == nil {
				return zero, wrapResilienceError(s.name, cbErr)
			}
			return result, callErr
		}
	}

	if s.bh != nil {
		inner := call
		var callErr error
		result, err := resilience.ExecuteWithResult(ctx, s.bh, func() (T, error) {
			var r T
			r, callErr = inner(ctx)
			return r, callErr
		})
		if err != nil && callErr == nil {
			return zero, wrapResilienceError(s.name, err)
		}
		return result, err
	}

	return call(ctx)
}

// wrapResilienceError converts policy sentinels to AppErrors.
func wrapResilienceError(name string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable(name).WithCause(err)
	case errors.Is(err, resilience.ErrBulkheadFull), errors.Is(err, resilience.ErrBulkheadTimeout):
		return apperrors.RateLimited().WithCause(err).WithDetail("service", name)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(name).WithCause(err)
	default:
		return err
	}
}

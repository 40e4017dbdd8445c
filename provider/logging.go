package provider

import (
	"context"
	"time"

	"github.com/kbukum/lecturekit/logger"
)

// WithLogging logs each Execute call with its duration. Failures log at
// warn level since callers usually retry or degrade.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := logger.DurationFields(l.inner.Name(), time.Since(start))
	if err != nil {
		l.log.WithContext(ctx).Warn("provider call failed", logger.MergeWithError(fields, err))
	} else {
		l.log.WithContext(ctx).Debug("provider call ok", fields)
	}
	return output, err
}

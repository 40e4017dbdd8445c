package provider

import (
	"context"

	"github.com/kbukum/lecturekit/observability"
)

// WithMetrics counts each Execute call by provider and outcome.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	output, err := m.inner.Execute(ctx, input)
	m.metrics.RecordProviderCall(ctx, m.inner.Name(), err)
	return output, err
}

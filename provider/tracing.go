package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/lecturekit/observability"
)

// WithTracing opens a "provider.<name>" span around each Execute call.
func WithTracing[I, O any]() Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner}
	}
}

type tracingRR[I, O any] struct {
	inner RequestResponse[I, O]
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, "provider."+t.inner.Name(),
		attribute.String(observability.AttrProvider, t.inner.Name()))
	defer span.End()

	output, err := t.inner.Execute(ctx, input)
	observability.SetSpanError(ctx, err)
	return output, err
}

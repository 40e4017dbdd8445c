package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stage tracks one pipeline stage: a span plus a duration sample.
type Stage struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartStage opens span spanName for stage and starts its timer. metrics may
// be nil.
func StartStage(ctx context.Context, metrics *Metrics, spanName, stage string, attrs ...attribute.KeyValue) (context.Context, *Stage) {
	attrs = append(attrs, attribute.String(AttrStage, stage))
	ctx, span := StartSpan(ctx, spanName, attrs...)
	return ctx, &Stage{name: stage, start: time.Now(), span: span, metrics: metrics}
}

// End closes the span and records the stage outcome.
func (s *Stage) End(ctx context.Context, err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetAttributes(attribute.String(AttrStatus, "error"))
	} else {
		s.span.SetAttributes(attribute.String(AttrStatus, "ok"))
	}
	s.span.End()
	s.metrics.RecordStage(ctx, s.name, time.Since(s.start), err)
}

// Elapsed returns the time since the stage started.
func (s *Stage) Elapsed() time.Duration {
	return time.Since(s.start)
}

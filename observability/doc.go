// Package observability wires OpenTelemetry tracing and metrics for the
// lecture pipeline: OTLP HTTP exporters, pipeline span names and the
// cache/stage/provider instruments.
package observability

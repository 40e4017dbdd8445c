// Package provider is the common shape of lecturekit's model backends.
//
// A backend is a RequestResponse[I, O]. Cross-cutting behavior is layered
// on with middlewares:
//
//	p = provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out](),
//	)(provider.WithResilience(raw, cfg.Resilience))
//
// Registry maps configured backend names to factories.
package provider

package provider

import "context"

// Provider is the base interface every model backend implements.
type Provider interface {
	// Name returns the backend's name, used in logs, metrics and errors.
	Name() string
	// IsAvailable reports whether the backend is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a backend that takes one input and returns one output:
// a chat completion, an embedding batch, a transcription.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function to RequestResponse. It is always available.
func Func[I, O any](name string, fn func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return &funcRR[I, O]{name: name, fn: fn}
}

type funcRR[I, O any] struct {
	name string
	fn   func(ctx context.Context, input I) (O, error)
}

func (f *funcRR[I, O]) Name() string                     { return f.name }
func (f *funcRR[I, O]) IsAvailable(context.Context) bool { return true }

func (f *funcRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.fn(ctx, input)
}

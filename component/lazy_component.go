package component

import (
	"context"
	"fmt"
	"sync"
)

// Lazy builds a value on first use. A failed build is retried on the next
// call; a successful one is kept until Close.
type Lazy[T any] struct {
	name  string
	build func(ctx context.Context) (T, error)
	close func(T) error

	mu    sync.Mutex
	value T
	ready bool
}

// NewLazy creates a Lazy with the given builder. closeFn may be nil.
func NewLazy[T any](name string, build func(context.Context) (T, error), closeFn func(T) error) *Lazy[T] {
	return &Lazy[T]{name: name, build: build, close: closeFn}
}

// Name returns the name used in errors and health reports.
func (l *Lazy[T]) Name() string { return l.name }

// Get returns the value, building it if needed.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return l.value, nil
	}
	v, err := l.build(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to initialize %s: %w", l.name, err)
	}
	l.value, l.ready = v, true
	return v, nil
}

// Initialized reports whether the value has been built.
func (l *Lazy[T]) Initialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Health reports degraded until the value is built.
func (l *Lazy[T]) Health() Health {
	if !l.Initialized() {
		return Health{Name: l.name, Status: StatusDegraded, Message: "not initialized"}
	}
	return Health{Name: l.name, Status: StatusHealthy}
}

// Close releases the value and marks the Lazy as unbuilt.
func (l *Lazy[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return nil
	}
	var err error
	if l.close != nil {
		err = l.close(l.value)
	}
	var zero T
	l.value, l.ready = zero, false
	return err
}

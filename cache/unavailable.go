package cache

import (
	"context"
	"time"
)

type unavailable struct{}

// Unavailable returns a Store that always misses and drops writes. It is
// used when caching is disabled.
func Unavailable() Store { return unavailable{} }

func (unavailable) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (unavailable) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (unavailable) Available(context.Context) bool { return false }

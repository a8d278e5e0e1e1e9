package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations used by the engine. Values are stored
// with a TTL; expired entries behave as misses.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// Nop is a no-op cache used when caching is disabled.
type Nop struct{}

func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Get(context.Context, string, interface{}) error                { return ErrCacheMiss }
func (Nop) Delete(context.Context, ...string) error                       { return nil }
func (Nop) Exists(context.Context, ...string) (bool, error)               { return false, nil }
func (Nop) Close() error                                                  { return nil }

package storage

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/webos/internal/infrastructure/resilience"
)

// Guarded wraps a remote KV with a circuit breaker. A missing key is an
// answer from the backend, so it never counts as a failure.
type Guarded struct {
	kv      KV
	breaker *resilience.Breaker
}

// Guard returns kv wrapped by breaker
func Guard(kv KV, breaker *resilience.Breaker) *Guarded {
	return &Guarded{kv: kv, breaker: breaker}
}

// NewBreaker builds a breaker that ignores ErrNotFound and context cancellation
func NewBreaker(name string, settings resilience.Settings) *resilience.Breaker {
	settings.IsFailure = func(err error) bool {
		return err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
	}
	return resilience.New(name, settings)
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := g.breaker.Do(func() error {
		var err error
		value, err = g.kv.Get(ctx, key)
		return err
	})
	return value, err
}

func (g *Guarded) Put(ctx context.Context, key string, value []byte) error {
	return g.breaker.Do(func() error {
		return g.kv.Put(ctx, key, value)
	})
}

func (g *Guarded) Close() error {
	return g.kv.Close()
}

// Breaker exposes the wrapped breaker
func (g *Guarded) Breaker() *resilience.Breaker {
	return g.breaker
}

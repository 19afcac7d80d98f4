package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webos/internal/infrastructure/resilience"
)

type flakyKV struct {
	*Memory
	down  bool
	calls int
}

var errUnavailable = errors.New("connection refused")

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.down {
		return nil, errUnavailable
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	f.calls++
	if f.down {
		return errUnavailable
	}
	return f.Memory.Put(ctx, key, value)
}

func TestGuardTripsOnBackendErrors(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	backend := &flakyKV{Memory: NewMemory(), down: true}
	kv := Guard(backend, NewBreaker("storage.test", resilience.Settings{
		Failures: 2,
		Cooldown: time.Minute,
		Clock:    func() time.Time { return now },
	}))

	assert.ErrorIs(t, kv.Put(ctx, "k", []byte("v")), errUnavailable)
	assert.ErrorIs(t, kv.Put(ctx, "k", []byte("v")), errUnavailable)
	assert.Equal(t, resilience.StateOpen, kv.Breaker().State())

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, backend.calls)

	backend.down = false
	now = now.Add(time.Minute)
	require.NoError(t, kv.Put(ctx, "k", []byte("v")))
	assert.Equal(t, resilience.StateClosed, kv.Breaker().State())

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestGuardIgnoresMissingKeys(t *testing.T) {
	ctx := context.Background()
	kv := Guard(NewMemory(), NewBreaker("storage.test", resilience.Settings{Failures: 1}))

	for range 3 {
		_, err := kv.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, resilience.StateClosed, kv.Breaker().State())
	require.NoError(t, kv.Close())
}

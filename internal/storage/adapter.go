package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

const defaultTimeout = 5 * time.Second

// Observer is notified after every load and save
type Observer func(op string, duration time.Duration, err error)

// AdapterOption configures an Adapter
type AdapterOption func(*Adapter)

// WithKey overrides the snapshot key
func WithKey(key string) AdapterOption {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithTimeout bounds each backend call
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithObserver registers a metrics hook
func WithObserver(obs Observer) AdapterOption {
	return func(a *Adapter) {
		a.observer = obs
	}
}

// Adapter stores the filesystem snapshot under one key
type Adapter struct {
	kv       KV
	key      string
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer
}

// NewAdapter wraps kv
func NewAdapter(kv KV, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		kv:      kv,
		key:     DefaultKey,
		timeout: defaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the snapshot key
func (a *Adapter) Key() string {
	return a.key
}

// Load fetches and decodes the snapshot. A missing key or an undecodable payload
// reports false so the caller falls back to the default layout.
func (a *Adapter) Load() (vfs.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	start := time.Now()
	data, err := a.kv.Get(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		a.observe("load", start, nil)
		a.logger.Info("No persisted tree found", zap.String("key", a.key))
		return nil, false
	}
	if err != nil {
		a.observe("load", start, err)
		a.logger.Warn("Failed to load persisted tree", zap.String("key", a.key), zap.Error(err))
		return nil, false
	}

	snap, err := vfs.DecodeSnapshot(data)
	a.observe("load", start, err)
	if err != nil {
		a.logger.Warn("Persisted tree is malformed", zap.String("key", a.key), zap.Error(err))
		return nil, false
	}

	a.logger.Debug("Loaded persisted tree", zap.String("key", a.key), zap.Int("entries", len(snap)))
	return snap, true
}

// Save encodes and writes the whole snapshot
func (a *Adapter) Save(snap vfs.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	start := time.Now()
	data, err := vfs.EncodeSnapshot(snap)
	if err == nil {
		err = a.kv.Put(ctx, a.key, data)
	}
	a.observe("save", start, err)
	return err
}

func (a *Adapter) observe(op string, start time.Time, err error) {
	if a.observer != nil {
		a.observer(op, time.Since(start), err)
	}
}

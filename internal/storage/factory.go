package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/webos/internal/infrastructure/config"
	"github.com/GriffinCanCode/webos/internal/infrastructure/resilience"
)

// Backend names accepted by New
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

// BreakerObserver is told about circuit breaker transitions; nil is allowed
type BreakerObserver func(name string, from, to resilience.State)

// New opens the backend selected by cfg.Backend. Remote backends are
// wrapped in a circuit breaker unless cfg.Breaker is disabled.
func New(ctx context.Context, cfg config.StorageConfig, observe BreakerObserver) (KV, error) {
	kv, err := open(ctx, cfg)
	if err != nil || !cfg.Breaker.Enabled {
		return kv, err
	}

	backend := strings.ToLower(cfg.Backend)
	if backend != BackendS3 && backend != BackendPostgres {
		return kv, nil
	}
	settings := resilience.Settings{
		Failures:      cfg.Breaker.Failures,
		Cooldown:      cfg.Breaker.Cooldown,
		OnStateChange: observe,
	}
	return Guard(kv, NewBreaker("storage."+backend, settings)), nil
}

func open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(cfg.Dir)
	case BackendS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("storage: s3 backend requires S3_BUCKET")
		}
		return NewS3(ctx, cfg.S3)
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("storage: postgres backend requires DATABASE_URL")
		}
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

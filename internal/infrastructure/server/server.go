package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/webos/internal/api/http"
	"github.com/GriffinCanCode/webos/internal/api/middleware"
	"github.com/GriffinCanCode/webos/internal/api/ws"
	"github.com/GriffinCanCode/webos/internal/infrastructure/config"
	"github.com/GriffinCanCode/webos/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webos/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webos/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/webos/internal/providers/filesystem"
	"github.com/GriffinCanCode/webos/internal/providers/terminal"
	"github.com/GriffinCanCode/webos/internal/service"
	"github.com/GriffinCanCode/webos/internal/shell"
	"github.com/GriffinCanCode/webos/internal/storage"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

const shutdownTimeout = 10 * time.Second

// Option configures a Server
type Option func(*options)

type options struct {
	logger *zap.Logger
	kv     storage.KV
}

// WithLogger replaces the logger built from config
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKV supplies an already opened storage backend instead of the configured one
func WithKV(kv storage.KV) Option {
	return func(o *options) { o.kv = kv }
}

// Server wires storage, the filesystem, providers and HTTP routes
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	kv        storage.KV
	store     *vfs.Store
	storeMu   sync.Locker
	registry  *service.Registry
	terminals *terminal.Manager
	router    *gin.Engine
}

// NewServer creates and initializes a new server
func NewServer(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.FromConfig(cfg.Logging))
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Initializing WebOS server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Backend),
	)

	metrics := monitoring.NewMetrics()

	kv := o.kv
	if kv == nil {
		var err error
		kv, err = storage.New(ctx, cfg.Storage, func(name string, from, to resilience.State) {
			logger.Warn("Storage circuit breaker changed state",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	adapter := storage.NewAdapter(kv,
		storage.WithKey(cfg.Storage.Key),
		storage.WithTimeout(cfg.Storage.Timeout),
		storage.WithLogger(logger.Named("storage")),
		storage.WithObserver(metrics.RecordSnapshot),
	)
	store := vfs.Open(adapter,
		vfs.WithPersister(adapter),
		vfs.WithLogger(logger.Named("vfs")),
	)
	logger.Info("Filesystem ready", zap.Int("entries", store.Len()), zap.String("key", adapter.Key()))

	profile, err := shell.LoadProfile(cfg.Shell.ProfilePath)
	if err != nil {
		logger.Warn("Using default shell profile", zap.Error(err))
	}

	storeMu := &sync.Mutex{}
	terminals := terminal.NewManager(store, storeMu,
		terminal.WithLogger(logger.Named("terminal")),
		terminal.WithSessionGauge(metrics.SetSessionsActive),
		terminal.WithShellOptions(
			shell.WithProfile(profile),
			shell.WithLogger(logger.Named("shell")),
			shell.WithObserver(metrics.RecordShellCommand),
		),
	)

	registry := service.NewRegistry()
	registerProviders(registry, logger,
		filesystem.NewProvider(store, storeMu, logger.Named("filesystem")),
		terminal.NewProvider(terminals),
	)

	s := &Server{
		config:    cfg,
		logger:    logger,
		metrics:   metrics,
		kv:        kv,
		store:     store,
		storeMu:   storeMu,
		registry:  registry,
		terminals: terminals,
	}
	s.router = s.routes()

	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(s.logger.Named("http")))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(s.config.Server.CORSOrigins))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(s.config.RateLimit))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Registry:  s.registry,
		Terminals: s.terminals,
		Store:     s.store,
		StoreMu:   s.storeMu,
		Metrics:   s.metrics,
		Logger:    s.logger,
	})
	wsHandler := ws.NewHandler(s.terminals, s.metrics, s.logger.Named("ws"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	router.POST("/shell", handlers.CreateShell)
	router.GET("/shell", handlers.ListShells)
	router.GET("/shell/:session", handlers.GetShell)
	router.POST("/shell/:session/exec", handlers.ExecShell)
	router.DELETE("/shell/:session", handlers.DeleteShell)

	router.GET("/vfs/snapshot", handlers.SnapshotTree)

	router.GET("/terminal", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.GET("/metrics/summary", handlers.MetricsSummary)

	return router
}

// Router exposes the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases the storage backend
func (s *Server) Close() error {
	s.logger.Info("Closing storage")
	err := s.kv.Close()
	if err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
	}
	_ = s.logger.Sync()
	return err
}

func registerProviders(registry *service.Registry, logger *zap.Logger, providers ...service.Provider) {
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			logger.Warn("Failed to register provider", zap.String("service", p.Definition().ID), zap.Error(err))
		}
	}

	stats := registry.Stats()
	logger.Info("Registered services",
		zap.Any("services", stats["total_services"]),
		zap.Any("tools", stats["total_tools"]),
	)
}

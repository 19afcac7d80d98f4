package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/infrastructure/config"
	"github.com/GriffinCanCode/webos/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webos/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "HTTP port")
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "HTTP bind address")
	flag.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "Snapshot backend: memory, file, s3 or postgres")
	flag.StringVar(&cfg.Storage.Dir, "data-dir", cfg.Storage.Dir, "Directory for the file backend")
	flag.StringVar(&cfg.Shell.ProfilePath, "profile", cfg.Shell.ProfilePath, "TOML or YAML shell profile")
	flag.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	logger, err := logging.New(logging.FromConfig(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg, server.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	runErr := srv.Run(ctx)
	if closeErr := srv.Close(); closeErr != nil {
		logger.Error("Error during shutdown", zap.Error(closeErr))
	}
	if runErr != nil {
		logger.Fatal("Server error", zap.Error(runErr))
	}
}

// Package logging builds the uber/zap loggers used across the server and CLI.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components receive a *zap.Logger and name it themselves with Named.
//
// Example Usage:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Logging))
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Named("vfs").Warn("Snapshot persist failed", zap.Error(err))
package logging

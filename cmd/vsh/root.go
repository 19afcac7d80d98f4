package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/infrastructure/config"
	"github.com/GriffinCanCode/webos/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webos/internal/shell"
	"github.com/GriffinCanCode/webos/internal/storage"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

// env is what every subcommand works against
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	kv      storage.KV
	store   *vfs.Store
	profile shell.SystemProfile
}

func (e *env) close() {
	if e.kv != nil {
		if err := e.kv.Close(); err != nil {
			e.logger.Warn("Failed to close storage", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

func NewRootCmd() *cobra.Command {
	e := &env{cfg: config.LoadOrDefault()}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vsh",
		Short: "Interactive shell over the WebOS virtual filesystem",
		Long: `vsh opens the persisted WebOS filesystem and runs shell commands against it.

Every change is written back to the snapshot backend immediately, so a running
server and vsh share one tree when pointed at the same backend.

Examples:
  # Interactive shell on the default file backend
  vsh

  # One-off command against a MinIO bucket
  STORAGE_BACKEND=s3 S3_ENDPOINT=http://localhost:9000 vsh exec -- ls -la

  # Show everything under ~/Documents
  vsh tree ~/Documents`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			e.logger = logging.NewOrNop(logging.Config{Level: level, Development: true, OutputPaths: []string{"stderr"}})
			return e.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return newREPL(e).Run()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.cfg.Storage.Backend, "storage", e.cfg.Storage.Backend, "Snapshot backend: memory, file, s3 or postgres")
	flags.StringVar(&e.cfg.Storage.Dir, "data-dir", e.cfg.Storage.Dir, "Directory for the file backend")
	flags.StringVar(&e.cfg.Storage.Key, "key", e.cfg.Storage.Key, "Snapshot key")
	flags.StringVar(&e.cfg.Shell.ProfilePath, "profile", e.cfg.Shell.ProfilePath, "TOML or YAML shell profile")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	cmd.AddCommand(newExecCmd(e), newTreeCmd(e), newImportCmd(e))
	return cmd
}

func (e *env) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := storage.New(ctx, e.cfg.Storage, nil)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	e.kv = kv

	adapter := storage.NewAdapter(kv,
		storage.WithKey(e.cfg.Storage.Key),
		storage.WithTimeout(e.cfg.Storage.Timeout),
		storage.WithLogger(e.logger.Named("storage")),
	)
	e.store = vfs.Open(adapter, vfs.WithPersister(adapter), vfs.WithLogger(e.logger.Named("vfs")))

	e.profile, err = shell.LoadProfile(e.cfg.Shell.ProfilePath)
	if err != nil {
		e.logger.Warn("Using default shell profile", zap.Error(err))
	}
	return nil
}

func (e *env) interpreter(opts ...shell.Option) *shell.Interpreter {
	opts = append([]shell.Option{
		shell.WithProfile(e.profile),
		shell.WithLogger(e.logger.Named("shell")),
	}, opts...)
	return shell.New(e.store, vfs.NewSession(vfs.HomePath), opts...)
}

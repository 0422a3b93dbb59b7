// Package cli defines the yamdb command tree.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/yamdb-backend/internal/app"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "yamdb",
		Short:        "YaMDb review API server and management commands",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv(envFile)
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load when present")
	cmd.AddCommand(serveCmd(), migrateCmd(), importCSVCmd(), createSuperuserCmd(), versionCmd())
	return cmd
}

// loadDotEnv reads path if it exists; real environment variables win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// bootstrap loads config, the logger and a migrated database for one-shot commands.
type bootstrap struct {
	cfg app.Config
	log *logger.Logger
}

func newBootstrap() (*bootstrap, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &bootstrap{cfg: cfg, log: log}, nil
}

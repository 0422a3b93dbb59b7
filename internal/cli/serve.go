package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/yamdb-backend/internal/app"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	b, err := newBootstrap()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, b.cfg, b.log)
	if err != nil {
		b.log.Error("Startup failed", "error", err)
		b.log.Sync()
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

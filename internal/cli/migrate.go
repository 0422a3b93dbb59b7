package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/yamdb-backend/internal/app"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := newBootstrap()
			if err != nil {
				return err
			}
			defer b.log.Sync()
			theDB, err := app.OpenDB(b.cfg, b.log)
			if err != nil {
				return err
			}
			if sqlDB, err := theDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			b.log.Info("Schema is up to date", "driver", b.cfg.DBDriver)
			return nil
		},
	}
}

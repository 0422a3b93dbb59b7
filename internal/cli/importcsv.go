package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/yamdb-backend/internal/app"
	"github.com/yungbote/yamdb-backend/internal/importer"
)

func importCSVCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Load the CSV data set (users, categories, genres, titles, reviews, comments)",
		RunE: func(c *cobra.Command, _ []string) error {
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

			results, err := importer.New(theDB, b.log).Run(c.Context(), dir)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, r := range results {
				if r.Missing {
					fmt.Fprintf(out, "%-16s missing\n", r.File)
					continue
				}
				fmt.Fprintf(out, "%-16s inserted=%d existing=%d orphaned=%d invalid=%d\n",
					r.File, r.Inserted, r.Existing, r.Orphaned, r.Invalid)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "static/data", "directory holding the CSV files")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/yamdb-backend/internal/app"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(c *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(c.OutOrStdout(), app.Version)
			return err
		},
	}
}

package commands

import (
	"fmt"

	"github.com/deppfellow/pantry/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every embedded migration that has not been applied yet. The applied
version is tracked in the schema_version table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loggerService, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

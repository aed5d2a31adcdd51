package cmd

import (
	"fmt"

	"passvault/internal/infrastructure/migration"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations to the default store",
	RunE: func(_ *cobra.Command, _ []string) error {
		mg := migration.New(cfg.DB.Migrations, migration.DefaultEngine)
		if err := mg.Up(cfg.DB.DatabaseURI); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

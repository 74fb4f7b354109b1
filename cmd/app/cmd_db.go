package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"listaai/internal/config"
	"listaai/internal/infra"
	"listaai/pkg/logging"
)

// listaai migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed plans and the admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logging.Setup(cfg.LogLevel, cfg.IsProduction())

		db, err := infra.OpenDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer infra.CloseDatabase(db)

		if err := infra.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := infra.Seed(db, cfg.Admin); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
		return nil
	},
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/disposal_backoffice/internal/platform/config"
	"github.com/SscSPs/disposal_backoffice/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Long: `Apply all pending migrations (up, the default) or roll back the most recent one (down).

Migrations are read from MIGRATIONS_PATH, "migrations" by default.`,
		Example: `  disposal_backend migrate
  disposal_backend migrate down`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE:      runMigrate,
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg.IsProduction)

	direction := database.MigrateUp
	if len(args) == 1 {
		direction = database.MigrationDirection(args[0])
	}

	version, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger)
	if err != nil {
		return err
	}
	logger.Info("Schema version", slog.Uint64("version", uint64(version)))
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nbapbp.dev/enginepbp/internal/config"
	"nbapbp.dev/enginepbp/internal/echo"
	"nbapbp.dev/enginepbp/internal/store"
)

// MigrateCmd applies the engine's schema migrations to the configured
// database, the lone database-maintenance command named in §4.9/§4.10 (no
// Lahman/Retrosheet-style dataset repopulation applies here).
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Connects to the configured database and applies any pending possession/event store migrations.",
		RunE:  migrate,
	}
}

func migrate(cmd *cobra.Command, args []string) error {
	echo.Header("Database Migration")

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := store.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	echo.Success("✓ Migrations applied")
	return nil
}

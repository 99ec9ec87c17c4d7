// Package commands provides CLI commands for the admin tool
package commands

import (
	"context"
	"database/sql"
	"os"

	"civiccare/internal/database"
	"civiccare/internal/observability"
	contextutils "civiccare/internal/utils"

	"github.com/spf13/cobra"
)

// DatabaseCommands returns the database management commands
func DatabaseCommands(logger *observability.Logger, db *sql.DB, databaseURL string) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Database management commands for the civic complaint service.

Available commands:
  stats   - Show database statistics
  migrate - Run pending database migrations`,
	}

	// Add subcommands
	dbCmd.AddCommand(statsCmd(logger, db))
	dbCmd.AddCommand(migrateCmd(logger, databaseURL))

	return dbCmd
}

// statsCmd returns the stats command
func statsCmd(logger *observability.Logger, db *sql.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Long:  `Show database statistics including user, complaint, and category counts.`,
		RunE:  runStats(logger, db),
	}
}

// migrateCmd returns the migrate command
func migrateCmd(logger *observability.Logger, databaseURL string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		RunE:  runMigrate(logger, databaseURL),
	}
}

// runStats returns a function that shows database statistics
func runStats(logger *observability.Logger, db *sql.DB) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		// Log diagnostic information
		logger.Info(ctx, "Diagnostic info", map[string]interface{}{"config_file": os.Getenv("CIVICCARE_CONFIG_FILE"), "database": getDatabaseInfo(db)})

		stats := map[string]interface{}{"database": "PostgreSQL", "status": "Connected"}
		for name, query := range map[string]string{
			"total_users":          "SELECT COUNT(*) FROM users",
			"total_complaints":     "SELECT COUNT(*) FROM complaints",
			"open_complaints":      "SELECT COUNT(*) FROM complaints WHERE status <> 'resolved'",
			"total_categories":     "SELECT COUNT(*) FROM categories",
			"pending_admin_access": "SELECT COUNT(*) FROM admin_users WHERE approved = FALSE",
		} {
			var count int
			if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
				logger.Error(ctx, "Failed to collect statistic", err, map[string]interface{}{"stat": name})
				return contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to collect statistic %s: %v", name, err)
			}
			stats[name] = count
		}

		logger.Info(ctx, "Database statistics", stats)
		return nil
	}
}

// runMigrate returns a function that applies pending migrations
func runMigrate(logger *observability.Logger, databaseURL string) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		logger.Info(ctx, "Running database migrations", map[string]interface{}{"database_url": maskDatabaseURL(databaseURL)})

		dbManager := database.NewManager(logger)
		if err := dbManager.RunMigrations(databaseURL); err != nil {
			logger.Error(ctx, "Migrations failed", err, map[string]interface{}{})
			return contextutils.WrapError(err, "failed to run migrations")
		}

		logger.Info(ctx, "Migrations completed successfully", nil)
		return nil
	}
}

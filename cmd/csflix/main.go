// Command csflix serves the movie catalogue and manages its database.
//
//	csflix serve              # migrate, seed when empty, serve HTTP
//	csflix migrate up|down    # apply or revert the schema
//	csflix import movies.csv  # load a CSV catalogue
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"csflix/internal/infra/db"
	"csflix/internal/observability/logging"
	"csflix/internal/resilience/retry"
	pkgconfig "csflix/pkg/config"
)

// dbFlags are shared by every subcommand that touches the database.
type dbFlags struct {
	driver string
	dsn    string
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	var flags dbFlags
	rootCmd := &cobra.Command{
		Use:           "csflix",
		Short:         "Server-rendered movie catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.driver, "driver",
		pkgconfig.GetEnvString("DATABASE_DRIVER", string(db.SQLite)), "database driver: sqlite3 or pgx")
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "dsn",
		pkgconfig.GetEnvString("DATABASE_URL", "file:csflix.db?_foreign_keys=on"), "database connection string")

	rootCmd.AddCommand(serveCmd(&flags, logger))
	rootCmd.AddCommand(migrateCmd(&flags, logger))
	rootCmd.AddCommand(importCmd(&flags, logger))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// openDatabase opens the configured database, waiting for it to accept connections,
// and applies pending migrations.
func openDatabase(ctx context.Context, flags *dbFlags) (*sql.DB, db.Dialect, error) {
	dialect, err := db.ParseDialect(flags.driver)
	if err != nil {
		return nil, "", err
	}
	var database *sql.DB
	err = retry.WithBackoff(ctx, retry.StartupConfig(), "open database", func(ctx context.Context) error {
		var openErr error
		database, openErr = db.Open(ctx, dialect, flags.dsn)
		return openErr
	})
	if err != nil {
		return nil, "", err
	}
	if err := db.MigrateUp(ctx, database, dialect); err != nil {
		_ = database.Close()
		return nil, "", fmt.Errorf("migrate: %w", err)
	}
	return database, dialect, nil
}

func closeDatabase(logger *slog.Logger, database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}

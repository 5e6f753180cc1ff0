package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"csflix/internal/infra/db"
)

func migrateCmd(flags *dbFlags, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, dialect, err := openDatabase(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeDatabase(logger, database)
			logger.Info("schema is up to date", slog.String("driver", string(dialect)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Drop every table, including users and comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialect, err := db.ParseDialect(flags.driver)
			if err != nil {
				return err
			}
			database, err := db.Open(cmd.Context(), dialect, flags.dsn)
			if err != nil {
				return err
			}
			defer closeDatabase(logger, database)
			if err := db.MigrateDown(cmd.Context(), database); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			logger.Info("schema dropped", slog.String("driver", string(dialect)))
			return nil
		},
	})

	return cmd
}

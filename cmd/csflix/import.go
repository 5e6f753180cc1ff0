package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"csflix/internal/infra/importer"
)

func importCmd(flags *dbFlags, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Load movies from a CSV file",
		Long: "Load movies from a CSV file whose header names Title and optionally Genre,\n" +
			"Description, Director and Year. Malformed and repeated rows are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			database, dialect, err := openDatabase(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeDatabase(logger, database)

			repos := newRepositories(database, dialect)
			im := &importer.Importer{Repo: repos.articles, Logger: logger}
			res, err := im.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d movies, skipped %d rows\n", res.Imported, res.Skipped)
			return nil
		},
	}
}

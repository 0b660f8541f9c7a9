package main

import (
	"fmt"

	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long:  "Every command migrates before it runs. migrate does only that and reports the schema version.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, db, err := resolve[database.DB](cmd)
			if err != nil {
				return err
			}
			var state struct {
				Version int  `db:"version"`
				Dirty   bool `db:"dirty"`
			}
			if err := db.GetContext(ctx, &state, "SELECT version, dirty FROM schema_migrations LIMIT 1"); err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %d (dirty: %t)\n", state.Version, state.Dirty)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the sapling version",
		Args:        noArgs,
		Annotations: map[string]string{skipStartup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sapling %s\n", version)
			return nil
		},
	}
}

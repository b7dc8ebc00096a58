package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Creates or upgrades the database schema. Safe to run repeatedly; already-applied migrations are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// initStore already runs Migrate; all that is left is to report.
			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("database is at schema version %d", version)))
			return nil
		},
	}
}

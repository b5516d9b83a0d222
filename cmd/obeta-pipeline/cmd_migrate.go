package main

import (
	"github.com/spf13/cobra"

	"github.com/Appy-Anand/obeta-project/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Creates the staging, curated and bookkeeping schemas if they do not exist yet. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := postgres.Migrate(ctx, a.pool); err != nil {
			return err
		}
		cmd.Println("schema up to date")
		return nil
	},
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/sgea/academic-events/internal/infrastructure/db/mongo"
	"github.com/sgea/academic-events/internal/infrastructure/db/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			defer a.close(ctx)

			if err := postgres.Migrate(ctx, a.pg); err != nil {
				return err
			}
			if err := mongo.NewAuditRepository(a.mongoDB).EnsureIndexes(ctx); err != nil {
				return err
			}
			a.log.Info().Msg("migration complete")
			return nil
		},
	}
}

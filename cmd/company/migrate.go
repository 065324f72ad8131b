package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Create or update the schema and seed the roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer syncLogger(logger)

			// NewRepository migrates and seeds the roles.
			repo, err := connectDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close()
			logger.Info("Database migrated", zap.String("driver", cfg.DBDriver))

			if !seed {
				return nil
			}
			seeded, err := repo.SeedSampleData(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("Sample data", zap.Bool("seeded", seeded))
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert sample companies into an empty database")
	return cmd
}

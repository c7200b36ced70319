package main

import (
	"context"
	"fmt"
	"os"

	"chocostore/internal/config"
	"chocostore/internal/db"
	"chocostore/internal/logging"
	"chocostore/internal/migrate"
	"chocostore/internal/seed"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "seed")

	var withMigrations bool
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Load the bundled demo catalog into the products table",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := db.Connect(ctx, cfg.DBConnString)
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			if withMigrations {
				if err := migrate.Apply(ctx, pool); err != nil {
					return err
				}
				logger.Info("migrations applied")
			}

			n, err := seed.Apply(ctx, pool, logger)
			if err != nil {
				return fmt.Errorf("seed apply: %w", err)
			}
			logger.WithField("products", n).Info("seed applied")
			return nil
		},
	}
	root.Flags().BoolVar(&withMigrations, "migrate", false, "apply pending migrations before seeding")

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.WithError(err).Error("seed failed")
		os.Exit(1)
	}
}

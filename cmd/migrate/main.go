package main

import (
	"context"
	"os"

	"chocostore/internal/config"
	"chocostore/internal/db"
	"chocostore/internal/logging"
	"chocostore/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "migrate")

	withPool := func(cmd *cobra.Command, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
		ctx := cmd.Context()
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, pool)
	}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the embedded database migrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrate.Apply(ctx, pool); err != nil {
					return err
				}
				logger.Info("migrations applied")
				return nil
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrate.Rollback(ctx, pool, steps); err != nil {
					return err
				}
				logger.WithField("steps", steps).Info("migrations reverted")
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				v, dirty, err := migrate.Version(ctx, pool)
				if err != nil {
					return err
				}
				logger.WithFields(logrus.Fields{"version": v, "dirty": dirty}).Info("schema version")
				return nil
			})
		},
	}

	root.AddCommand(down, version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.WithError(err).Error("migrate failed")
		os.Exit(1)
	}
}

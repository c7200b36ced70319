package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"chocostore/internal/config"
	"chocostore/internal/db"
	"chocostore/internal/importer"
	"chocostore/internal/logging"
	"chocostore/internal/repository/product"
	adminsvc "chocostore/internal/service/admin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "importer")

	var filePath string
	root := &cobra.Command{
		Use:          "importer",
		Short:        "Import products from a CSV export, keeping products that already exist",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := db.Connect(ctx, cfg.DBConnString)
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			sink, err := adminsvc.New(adminsvc.Config{}, product.NewPostgres(pool, logger), nil, nil, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			report, err := importer.NewCSVImporter(f, sink).Run(ctx)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			for _, msg := range report.Errors {
				logger.Warn(msg)
			}
			logger.WithFields(logrus.Fields{
				"imported": report.Imported,
				"skipped":  report.Skipped,
				"errors":   len(report.Errors),
				"total":    report.Total,
				"elapsed":  time.Since(start).Truncate(time.Millisecond),
			}).Info("import finished")
			return nil
		},
	}
	root.Flags().StringVar(&filePath, "file", "", "path to the product CSV export")
	_ = root.MarkFlagRequired("file")

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.WithError(err).Error("importer failed")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/central-west-weather/internal/analytics"
	"github.com/i474232898/central-west-weather/internal/archive"
	"github.com/i474232898/central-west-weather/internal/metrics"
	"github.com/i474232898/central-west-weather/internal/scheduler"
	"github.com/i474232898/central-west-weather/internal/store"
	"github.com/i474232898/central-west-weather/internal/weather"
	"github.com/i474232898/central-west-weather/internal/weather/sources"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate the hourly CSV and replace the store tables",
	Long: `Loads the hourly CSV (local path or http(s) URL) into DuckDB, computes the four
aggregates and writes the first rows of each into the SQLite store, replacing
whatever the tables held before.

With --every the run repeats on that interval until interrupted, and run
metrics are served at /metrics on PORT.`,
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().String("csv", "", "CSV path or URL (overrides WEATHER_CSV)")
	aggregateCmd.Flags().Duration("every", 0, "re-run the aggregation on this interval (overrides AGGREGATE_INTERVAL)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd); err != nil {
		return err
	}

	// Shared HTTP client for remote CSV downloads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	source := sources.Resolver{
		Remote: sources.NewHTTPSource(httpClient, "", logger),
		Local:  sources.LocalSource{},
	}

	recorder := metrics.NewRecorder()
	opts := []weather.Option{
		weather.WithSampleLimit(cfg.SampleLimit),
		weather.WithRecorder(recorder),
	}
	if cfg.ArchiveDir != "" {
		arch, err := archive.NewParquetArchiver(cfg.ArchiveDir, cfg.ArchiveCompression, logger)
		if err != nil {
			return err
		}
		opts = append(opts, weather.WithArchiver(arch))
	}

	agg := weather.NewAggregator(
		source,
		analytics.Opener(cfg.DuckDBPath, cfg.Columns),
		store.SQLiteOpener(cfg.StorePath),
		logger,
		opts...,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AggregateInterval == 0 {
		ds, err := agg.Run(ctx, cfg.CSVLocation)
		if err != nil {
			return err
		}
		logger.Info("store updated", zap.String("path", cfg.StorePath), zap.Any("rows", ds.RowCounts()))
		return nil
	}

	// Each run gets most of the interval; runs never overlap.
	sched := scheduler.New(cfg.AggregateInterval, cfg.AggregateInterval-cfg.AggregateInterval/10, func(ctx context.Context) error {
		_, err := agg.Run(ctx, cfg.CSVLocation)
		return err
	}, logger)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	// Long-running mode exposes run metrics on PORT.
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	logger.Info("scheduled aggregation started", zap.Duration("every", cfg.AggregateInterval), zap.String("metrics_port", cfg.Port))
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	return nil
}

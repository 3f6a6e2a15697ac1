package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/central-west-weather/internal/api/http"
	"github.com/i474232898/central-west-weather/internal/dashboard"
	"github.com/i474232898/central-west-weather/internal/metrics"
	"github.com/i474232898/central-west-weather/internal/store"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the exported tables as a read-only dashboard",
	Long: `Loads the four tables from the SQLite store once and serves the story,
questions, insights, sample and visualization pages over HTTP.`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().String("port", "", "listen port (overrides PORT)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd); err != nil {
		return err
	}

	ms, err := store.LoadMemoryStore(cmd.Context(), cfg.StorePath)
	if err != nil {
		return err
	}
	dc, err := dashboard.NewContext(ms)
	if err != nil {
		return err
	}

	app, err := httpapi.NewApp(dc, metrics.NewRecorder(), logger)
	if err != nil {
		return err
	}

	go func() {
		logger.Info("dashboard listening", zap.String("port", cfg.Port), zap.String("store", cfg.StorePath))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/central-west-weather/internal/config"
)

var (
	verbose bool

	cfg    *config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "weather",
	Short: "Central West Brazil hourly weather aggregation and dashboard",
	Long: `weather reduces the INMET hourly dataset for Central West Brazil into four
summary tables and serves them through a read-only dashboard.

  weather aggregate   load the CSV, aggregate with DuckDB, export to SQLite
  weather dashboard   serve the exported tables over HTTP`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("db", "", "SQLite store path (overrides WEATHER_DB_PATH)")

	rootCmd.AddCommand(aggregateCmd, dashboardCmd)
}

// applyFlags overlays explicitly set flags on the loaded config.
func applyFlags(cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.StorePath = strings.TrimSpace(f.Value.String())
	}
	if f := cmd.Flags().Lookup("csv"); f != nil && f.Changed {
		cfg.CSVLocation = strings.TrimSpace(f.Value.String())
	}
	if cmd.Flags().Changed("every") {
		every, err := cmd.Flags().GetDuration("every")
		if err != nil {
			return err
		}
		cfg.AggregateInterval = every
	}
	if cmd.Flags().Changed("port") {
		port, err := cmd.Flags().GetString("port")
		if err != nil {
			return err
		}
		cfg.Port = port
	}
	return cfg.Validate()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

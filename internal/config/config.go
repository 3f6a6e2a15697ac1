package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/central-west-weather/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	// CSVLocation is a local path or an http(s) URL of the hourly dataset.
	CSVLocation string `validate:"required"`

	// StorePath is the SQLite file shared by the aggregator and the dashboard.
	StorePath string `validate:"required"`

	// DuckDBPath keeps the analytical working database on disk; empty means in-memory.
	DuckDBPath string

	SampleLimit int `validate:"gte=1"`

	// AggregateInterval re-runs the aggregation periodically (0 = run once).
	AggregateInterval time.Duration `validate:"gte=0"`

	// ArchiveDir enables the Parquet archive of exported samples.
	ArchiveDir         string
	ArchiveCompression string `validate:"omitempty,oneof=SNAPPY GZIP NONE snappy gzip none"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`

	Columns weather.Columns
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := &AppConfig{
		CSVLocation:        getenvDefault("WEATHER_CSV", "central_west_hourly_weather_sample.csv"),
		StorePath:          getenvDefault("WEATHER_DB_PATH", "central_west_data.db"),
		DuckDBPath:         os.Getenv("DUCKDB_PATH"),
		SampleLimit:        getenvInt("SAMPLE_LIMIT", weather.SampleLimit),
		ArchiveDir:         os.Getenv("ARCHIVE_DIR"),
		ArchiveCompression: getenvDefault("ARCHIVE_COMPRESSION", "SNAPPY"),
		Port:               getenvDefault("PORT", "8080"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		Columns:            weather.DefaultColumns(),
	}

	interval, err := time.ParseDuration(getenvDefault("AGGREGATE_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGGREGATE_INTERVAL: %w", err)
	}
	cfg.AggregateInterval = interval

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	if path := os.Getenv("COLUMNS_FILE"); path != "" {
		cols, err := loadColumns(path, cfg.Columns)
		if err != nil {
			return nil, err
		}
		cfg.Columns = cols
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct constraints, including the column mapping.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadColumns overlays the YAML mapping at path on top of defaults.
func loadColumns(path string, defaults weather.Columns) (weather.Columns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return weather.Columns{}, fmt.Errorf("read COLUMNS_FILE: %w", err)
	}
	cols := defaults
	if err := yaml.Unmarshal(data, &cols); err != nil {
		return weather.Columns{}, fmt.Errorf("parse COLUMNS_FILE: %w", err)
	}
	return cols, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

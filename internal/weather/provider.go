package weather

import (
	"context"
	"time"
)

// LoadInfo describes the raw working table after a CSV load.
type LoadInfo struct {
	Table    string
	Columns  []string
	RowCount int64
}

// Engine abstracts the analytical database holding the raw hourly records.
type Engine interface {
	Load(ctx context.Context, csvPath string) (LoadInfo, error)
	AvgTempOverTime(ctx context.Context) ([]AvgTemp, error)
	MonthlyPrecipitation(ctx context.Context) ([]MonthlyPrecipitation, error)
	DataCountByStation(ctx context.Context) ([]StationCount, error)
	ExtremeConditions(ctx context.Context) ([]StationExtremes, error)
	Close() error
}

// Store is the contract of the dashboard-facing relational store.
type Store interface {
	// SaveDataset replaces each table in TableNames order. Tables already
	// replaced stay replaced if a later one fails.
	SaveDataset(ctx context.Context, ds Dataset) error
	RowCount(ctx context.Context, table string) (int64, error)
	Close() error
}

// Source resolves a CSV location into a local file the engine can read.
// cleanup is never nil and must be called once the file is no longer needed.
type Source interface {
	Fetch(ctx context.Context, location string) (path string, cleanup func(), err error)
}

// Archiver copies an exported dataset into secondary storage.
type Archiver interface {
	Archive(ctx context.Context, runID string, ds Dataset) error
}

// Recorder receives run metrics.
type Recorder interface {
	ObserveRun(status string, d time.Duration)
	SetExportedRows(table string, n int)
}

// EngineOpener opens a fresh engine for one run.
type EngineOpener func(ctx context.Context) (Engine, error)

// StoreOpener opens the store for one run.
type StoreOpener func(ctx context.Context) (Store, error)

package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Aggregator orchestrates one load -> aggregate -> export run.
type Aggregator struct {
	source     Source
	openEngine EngineOpener
	openStore  StoreOpener
	limit      int
	logger     *zap.Logger

	archiver Archiver
	recorder Recorder
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithArchiver copies every exported dataset through a.
func WithArchiver(a Archiver) Option {
	return func(ag *Aggregator) { ag.archiver = a }
}

// WithRecorder reports run metrics to r.
func WithRecorder(r Recorder) Option {
	return func(ag *Aggregator) { ag.recorder = r }
}

// WithSampleLimit overrides SampleLimit.
func WithSampleLimit(n int) Option {
	return func(ag *Aggregator) { ag.limit = n }
}

// NewAggregator creates a new Aggregator.
func NewAggregator(source Source, openEngine EngineOpener, openStore StoreOpener, logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	ag := &Aggregator{
		source:     source,
		openEngine: openEngine,
		openStore:  openStore,
		limit:      SampleLimit,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(ag)
	}
	return ag
}

// Run loads the CSV at location, aggregates it and replaces the four store tables
// with the truncated results. Any failure aborts the run.
func (a *Aggregator) Run(ctx context.Context, location string) (ds Dataset, err error) {
	runID := uuid.NewString()
	log := a.logger.With(zap.String("run_id", runID))
	started := time.Now()

	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		if a.recorder != nil {
			a.recorder.ObserveRun(status, time.Since(started))
		}
		log.Info("aggregation run finished", zap.String("status", status), zap.Duration("took", time.Since(started)))
	}()

	path, cleanup, err := a.source.Fetch(ctx, location)
	if err != nil {
		return Dataset{}, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer cleanup()

	full, err := a.aggregate(ctx, log, path)
	if err != nil {
		return Dataset{}, err
	}

	sample := full.Head(a.limit)
	if err := a.export(ctx, log, sample); err != nil {
		return Dataset{}, err
	}

	if a.archiver != nil {
		if err := a.archiver.Archive(ctx, runID, sample); err != nil {
			return Dataset{}, fmt.Errorf("archive: %w", err)
		}
	}

	return sample, nil
}

func (a *Aggregator) aggregate(ctx context.Context, log *zap.Logger, path string) (ds Dataset, err error) {
	eng, err := a.openEngine(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("open engine: %w", err)
	}
	defer func() {
		err = errors.Join(err, eng.Close())
		log.Debug("analytical engine closed")
	}()

	info, err := eng.Load(ctx, path)
	if err != nil {
		return Dataset{}, fmt.Errorf("load %s: %w", path, err)
	}
	log.Info("raw table loaded",
		zap.String("table", info.Table),
		zap.Strings("columns", info.Columns),
		zap.Int64("rows", info.RowCount))

	ds, err = Aggregate(ctx, eng)
	if err != nil {
		return Dataset{}, err
	}
	for name, n := range ds.RowCounts() {
		log.Debug("aggregate computed", zap.String("table", name), zap.Int("rows", n))
	}
	return ds, nil
}

func (a *Aggregator) export(ctx context.Context, log *zap.Logger, ds Dataset) (err error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()

	if err := st.SaveDataset(ctx, ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	for _, name := range TableNames {
		n, err := st.RowCount(ctx, name)
		if err != nil {
			return fmt.Errorf("verify %s: %w", name, err)
		}
		log.Info("table saved", zap.String("table", name), zap.Int64("rows", n))
		if a.recorder != nil {
			a.recorder.SetExportedRows(name, int(n))
		}
	}
	return nil
}

package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	path     string
	err      error
	cleaned  int
	location string
}

func (f *fakeSource) Fetch(_ context.Context, location string) (string, func(), error) {
	f.location = location
	if f.err != nil {
		return "", func() {}, f.err
	}
	return f.path, func() { f.cleaned++ }, nil
}

type fakeEngine struct {
	ds      Dataset
	loadErr error
	failOn  string
	loaded  string
	closed  bool
}

func (e *fakeEngine) Load(_ context.Context, path string) (LoadInfo, error) {
	e.loaded = path
	return LoadInfo{Table: "central_west_data", RowCount: 1}, e.loadErr
}

func (e *fakeEngine) fail(table string) error {
	if e.failOn == table {
		return errors.New("query failed")
	}
	return nil
}

func (e *fakeEngine) AvgTempOverTime(context.Context) ([]AvgTemp, error) {
	return e.ds.AvgTempOverTime, e.fail(TableAvgTempOverTime)
}

func (e *fakeEngine) MonthlyPrecipitation(context.Context) ([]MonthlyPrecipitation, error) {
	return e.ds.MonthlyPrecipitation, e.fail(TableMonthlyPrecipitation)
}

func (e *fakeEngine) DataCountByStation(context.Context) ([]StationCount, error) {
	return e.ds.DataCountByStation, e.fail(TableDataCountByStation)
}

func (e *fakeEngine) ExtremeConditions(context.Context) ([]StationExtremes, error) {
	return e.ds.ExtremeConditions, e.fail(TableExtremeConditions)
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

type fakeStore struct {
	saved   *Dataset
	saveErr error
	closed  bool
}

func (s *fakeStore) SaveDataset(_ context.Context, ds Dataset) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = &ds
	return nil
}

func (s *fakeStore) RowCount(_ context.Context, table string) (int64, error) {
	if s.saved == nil {
		return 0, fmt.Errorf("no table %s", table)
	}
	return int64(s.saved.RowCounts()[table]), nil
}

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

type fakeRecorder struct {
	runs []string
	rows map[string]int
}

func (r *fakeRecorder) ObserveRun(status string, _ time.Duration) { r.runs = append(r.runs, status) }

func (r *fakeRecorder) SetExportedRows(table string, n int) {
	if r.rows == nil {
		r.rows = make(map[string]int)
	}
	r.rows[table] = n
}

type fakeArchiver struct {
	runID string
	ds    Dataset
}

func (a *fakeArchiver) Archive(_ context.Context, runID string, ds Dataset) error {
	a.runID, a.ds = runID, ds
	return nil
}

func bigDataset(n int) Dataset {
	var ds Dataset
	for i := 0; i < n; i++ {
		ym := fmt.Sprintf("%04d-%02d", 1900+i/12, i%12+1)
		st := fmt.Sprintf("ST%04d", i)
		ds.AvgTempOverTime = append(ds.AvgTempOverTime, AvgTemp{YearMonth: ym, AvgTemp: float64(i)})
		ds.MonthlyPrecipitation = append(ds.MonthlyPrecipitation, MonthlyPrecipitation{YearMonth: ym, Station: st, TotalPrecipitation: 1})
		ds.DataCountByStation = append(ds.DataCountByStation, StationCount{Station: st, DataCount: int64(n - i)})
		ds.ExtremeConditions = append(ds.ExtremeConditions, StationExtremes{Station: st, MaxTemp: float64(n - i), MinTemp: 0, MaxWindSpeed: 1})
	}
	return ds
}

func newTestAggregator(src Source, eng *fakeEngine, st *fakeStore, opts ...Option) *Aggregator {
	return NewAggregator(src,
		func(context.Context) (Engine, error) { return eng, nil },
		func(context.Context) (Store, error) { return st, nil },
		nil, opts...)
}

func TestRunCapsEveryTable(t *testing.T) {
	src := &fakeSource{path: "/tmp/data.csv"}
	eng := &fakeEngine{ds: bigDataset(SampleLimit + 120)}
	st := &fakeStore{}
	rec := &fakeRecorder{}
	arch := &fakeArchiver{}

	ds, err := newTestAggregator(src, eng, st, WithRecorder(rec), WithArchiver(arch)).Run(context.Background(), "data.csv")
	require.NoError(t, err)

	assert.Equal(t, "data.csv", src.location)
	assert.Equal(t, "/tmp/data.csv", eng.loaded)
	assert.Equal(t, 1, src.cleaned)
	assert.True(t, eng.closed)
	assert.True(t, st.closed)

	for _, name := range TableNames {
		assert.Equal(t, SampleLimit, ds.RowCounts()[name], name)
		assert.Equal(t, SampleLimit, rec.rows[name], name)
	}
	require.NotNil(t, st.saved)
	assert.Equal(t, ds, *st.saved)
	assert.Equal(t, eng.ds.DataCountByStation[:SampleLimit], ds.DataCountByStation, "head keeps engine order")

	assert.NotEmpty(t, arch.runID)
	assert.Equal(t, ds, arch.ds)
	assert.Equal(t, []string{"ok"}, rec.runs)
}

func TestRunKeepsSmallTablesWhole(t *testing.T) {
	eng := &fakeEngine{ds: bigDataset(3)}
	st := &fakeStore{}

	ds, err := newTestAggregator(&fakeSource{}, eng, st).Run(context.Background(), "x.csv")
	require.NoError(t, err)
	assert.Equal(t, eng.ds, ds)
}

func TestRunWithSampleLimit(t *testing.T) {
	eng := &fakeEngine{ds: bigDataset(10)}
	ds, err := newTestAggregator(&fakeSource{}, eng, &fakeStore{}, WithSampleLimit(4)).Run(context.Background(), "x.csv")
	require.NoError(t, err)
	assert.Len(t, ds.AvgTempOverTime, 4)
	assert.Len(t, ds.ExtremeConditions, 4)
}

func TestRunFailuresAbort(t *testing.T) {
	boom := errors.New("boom")

	t.Run("fetch", func(t *testing.T) {
		eng := &fakeEngine{}
		st := &fakeStore{}
		rec := &fakeRecorder{}
		_, err := newTestAggregator(&fakeSource{err: boom}, eng, st, WithRecorder(rec)).Run(context.Background(), "x.csv")
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, eng.loaded)
		assert.Nil(t, st.saved)
		assert.Equal(t, []string{"error"}, rec.runs)
	})

	t.Run("load", func(t *testing.T) {
		src := &fakeSource{path: "x.csv"}
		eng := &fakeEngine{loadErr: boom}
		st := &fakeStore{}
		_, err := newTestAggregator(src, eng, st).Run(context.Background(), "x.csv")
		assert.ErrorIs(t, err, boom)
		assert.True(t, eng.closed)
		assert.Nil(t, st.saved, "nothing is exported after a failed load")
		assert.Equal(t, 1, src.cleaned)
	})

	t.Run("query", func(t *testing.T) {
		eng := &fakeEngine{ds: bigDataset(2), failOn: TableDataCountByStation}
		st := &fakeStore{}
		_, err := newTestAggregator(&fakeSource{}, eng, st).Run(context.Background(), "x.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), TableDataCountByStation)
		assert.Nil(t, st.saved)
	})

	t.Run("save", func(t *testing.T) {
		st := &fakeStore{saveErr: boom}
		arch := &fakeArchiver{}
		_, err := newTestAggregator(&fakeSource{}, &fakeEngine{ds: bigDataset(2)}, st, WithArchiver(arch)).Run(context.Background(), "x.csv")
		assert.ErrorIs(t, err, boom)
		assert.True(t, st.closed)
		assert.Empty(t, arch.runID)
	})

	t.Run("open engine", func(t *testing.T) {
		agg := NewAggregator(&fakeSource{},
			func(context.Context) (Engine, error) { return nil, boom },
			func(context.Context) (Store, error) { return &fakeStore{}, nil },
			nil)
		_, err := agg.Run(context.Background(), "x.csv")
		assert.ErrorIs(t, err, boom)
	})
}

func TestHead(t *testing.T) {
	ds := bigDataset(5)
	assert.Len(t, ds.Head(2).MonthlyPrecipitation, 2)
	assert.Equal(t, ds, ds.Head(10))
}

func TestTablesMapNullToNil(t *testing.T) {
	tbl := ExtremesTable([]StationExtremes{{Station: "A", MaxTemp: 30, MinTemp: math.NaN(), MaxWindSpeed: 2}})
	assert.Equal(t, []any{"A", 30.0, nil, 2.0}, tbl.Rows[0])

	empty := AvgTempTable(nil)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)
}

package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/central-west-weather/internal/weather"
)

func sampleDataset() weather.Dataset {
	return weather.Dataset{
		AvgTempOverTime: []weather.AvgTemp{
			{YearMonth: "2020-01", AvgTemp: 22.5},
			{YearMonth: "2020-02", AvgTemp: math.NaN()},
		},
		MonthlyPrecipitation: []weather.MonthlyPrecipitation{
			{YearMonth: "2020-01", Station: "A", TotalPrecipitation: 2},
			{YearMonth: "2020-01", Station: "B", TotalPrecipitation: 1.25},
		},
		DataCountByStation: []weather.StationCount{
			{Station: "B", DataCount: 10},
			{Station: "A", DataCount: 3},
		},
		ExtremeConditions: []weather.StationExtremes{
			{Station: "A", MaxTemp: 30, MinTemp: 20, MaxWindSpeed: 4},
			{Station: "B", MaxTemp: 25, MinTemp: 18, MaxWindSpeed: math.NaN()},
		},
	}
}

func openTemp(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "central_west_data.db")
	s, err := OpenSQLite(context.Background(), path, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSaveAndLoadDataset(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, s.SaveDataset(ctx, sampleDataset()))

	for _, name := range weather.TableNames {
		n, err := s.RowCount(ctx, name)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n, name)
	}

	got, err := s.LoadDataset(ctx)
	require.NoError(t, err)

	want := sampleDataset()
	assert.Equal(t, want.MonthlyPrecipitation, got.MonthlyPrecipitation)
	assert.Equal(t, want.DataCountByStation, got.DataCountByStation)

	require.Len(t, got.AvgTempOverTime, 2)
	assert.Equal(t, "2020-01", got.AvgTempOverTime[0].YearMonth)
	assert.Equal(t, 22.5, got.AvgTempOverTime[0].AvgTemp)
	assert.True(t, math.IsNaN(got.AvgTempOverTime[1].AvgTemp), "NULL comes back as NaN")

	require.Len(t, got.ExtremeConditions, 2)
	assert.Equal(t, want.ExtremeConditions[0], got.ExtremeConditions[0])
	assert.True(t, math.IsNaN(got.ExtremeConditions[1].MaxWindSpeed))
}

func TestSaveDatasetReplacesTables(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, s.SaveDataset(ctx, sampleDataset()))
	first, err := s.LoadDataset(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SaveDataset(ctx, sampleDataset()))
	second, err := s.LoadDataset(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.MonthlyPrecipitation, second.MonthlyPrecipitation)
	assert.Equal(t, first.DataCountByStation, second.DataCountByStation)
	n, err := s.RowCount(ctx, weather.TableDataCountByStation)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "a second save must not accumulate rows")

	smaller := sampleDataset()
	smaller.DataCountByStation = smaller.DataCountByStation[:1]
	require.NoError(t, s.SaveDataset(ctx, smaller))
	n, err = s.RowCount(ctx, weather.TableDataCountByStation)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRowCountRejectsUnknownTables(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.RowCount(context.Background(), "sqlite_master; DROP TABLE x")
	assert.Error(t, err)
}

func TestLoadMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.SaveDataset(ctx, sampleDataset()))
	require.NoError(t, s.Close())

	ms, err := LoadMemoryStore(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ms.Stations())
	assert.Len(t, ms.Dataset().MonthlyPrecipitation, 2)
}

func TestLoadMemoryStoreMissingFile(t *testing.T) {
	_, err := LoadMemoryStore(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestLoadMemoryStoreMissingTable(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	_, err := s.db.ExecContext(ctx, `CREATE TABLE avg_temp_over_time ("YearMonth" TEXT, "AvgTemp" REAL)`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = LoadMemoryStore(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), weather.TableMonthlyPrecipitation)
}

func TestSaveDatasetStopsAtFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// avg_temp_over_time is replaced, monthly_precipitation fails and is rolled back.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "avg_temp_over_time"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "avg_temp_over_time"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "avg_temp_over_time" VALUES (?, ?)`))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "monthly_precipitation"`)).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	s := NewSQLiteStore(db)
	err = s.SaveDataset(context.Background(), weather.Dataset{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replace monthly_precipitation")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDatasetInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare("INSERT INTO")
	prep.ExpectExec().WithArgs("2020-01", 1.5).WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	s := NewSQLiteStore(db)
	err = s.SaveDataset(context.Background(), weather.Dataset{
		AvgTempOverTime: []weather.AvgTemp{{YearMonth: "2020-01", AvgTemp: 1.5}},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Package analytics runs the aggregation queries on an embedded DuckDB database.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// RawTable is the working table holding the hourly records.
const RawTable = "central_west_data"

// DuckDB is a weather.Engine backed by DuckDB.
type DuckDB struct {
	db   *sql.DB
	cols weather.Columns
}

var _ weather.Engine = (*DuckDB)(nil)

// Open opens a DuckDB database. An empty path keeps the database in memory.
func Open(ctx context.Context, path string, cols weather.Columns) (*DuckDB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	// One connection: queries run sequentially against a single session.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &DuckDB{db: db, cols: cols}, nil
}

// Opener adapts Open to weather.EngineOpener.
func Opener(path string, cols weather.Columns) weather.EngineOpener {
	return func(ctx context.Context) (weather.Engine, error) {
		return Open(ctx, path, cols)
	}
}

// Close closes the database.
func (d *DuckDB) Close() error {
	return d.db.Close()
}

// Load (re)creates the raw table from a CSV file, letting DuckDB infer column types.
func (d *DuckDB) Load(ctx context.Context, csvPath string) (weather.LoadInfo, error) {
	create := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto(%s)",
		quoteIdent(RawTable), quoteLiteral(csvPath))
	if _, err := d.db.ExecContext(ctx, create); err != nil {
		return weather.LoadInfo{}, err
	}

	info := weather.LoadInfo{Table: RawTable}

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("SELECT name FROM pragma_table_info(%s)", quoteLiteral(RawTable)))
	if err != nil {
		return weather.LoadInfo{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return weather.LoadInfo{}, err
		}
		info.Columns = append(info.Columns, name)
	}
	if err := rows.Err(); err != nil {
		return weather.LoadInfo{}, err
	}

	count := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(RawTable))
	if err := d.db.QueryRowContext(ctx, count).Scan(&info.RowCount); err != nil {
		return weather.LoadInfo{}, err
	}
	return info, nil
}

// AvgTempOverTime returns the mean dry-bulb temperature per calendar month.
func (d *DuckDB) AvgTempOverTime(ctx context.Context) ([]weather.AvgTemp, error) {
	rows, err := d.db.QueryContext(ctx, d.avgTempQuery())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []weather.AvgTemp{}
	for rows.Next() {
		var (
			r   weather.AvgTemp
			avg sql.NullFloat64
		)
		if err := rows.Scan(&r.YearMonth, &avg); err != nil {
			return nil, err
		}
		r.AvgTemp = nullFloat(avg)
		out = append(out, r)
	}
	return out, rows.Err()
}

// MonthlyPrecipitation returns summed precipitation per (month, station), leaf cube cells only.
func (d *DuckDB) MonthlyPrecipitation(ctx context.Context) ([]weather.MonthlyPrecipitation, error) {
	rows, err := d.db.QueryContext(ctx, d.precipitationQuery())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []weather.MonthlyPrecipitation{}
	for rows.Next() {
		var (
			r     weather.MonthlyPrecipitation
			total sql.NullFloat64
		)
		if err := rows.Scan(&r.YearMonth, &r.Station, &total); err != nil {
			return nil, err
		}
		r.TotalPrecipitation = nullFloat(total)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DataCountByStation returns the number of raw rows per station, largest first.
func (d *DuckDB) DataCountByStation(ctx context.Context) ([]weather.StationCount, error) {
	rows, err := d.db.QueryContext(ctx, d.countQuery())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []weather.StationCount{}
	for rows.Next() {
		var (
			r       weather.StationCount
			station sql.NullString
		)
		if err := rows.Scan(&station, &r.DataCount); err != nil {
			return nil, err
		}
		r.Station = station.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExtremeConditions returns per-station temperature extremes and peak wind, hottest first.
func (d *DuckDB) ExtremeConditions(ctx context.Context) ([]weather.StationExtremes, error) {
	rows, err := d.db.QueryContext(ctx, d.extremesQuery())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []weather.StationExtremes{}
	for rows.Next() {
		var (
			r                  weather.StationExtremes
			station            sql.NullString
			maxT, minT, maxWnd sql.NullFloat64
		)
		if err := rows.Scan(&station, &maxT, &minT, &maxWnd); err != nil {
			return nil, err
		}
		r.Station = station.String
		r.MaxTemp, r.MinTemp, r.MaxWindSpeed = nullFloat(maxT), nullFloat(minT), nullFloat(maxWnd)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// columnTypes are the SQLite affinities of every exported column, keyed by table.
var columnTypes = map[string][]string{
	weather.TableAvgTempOverTime:      {"TEXT", "REAL"},
	weather.TableMonthlyPrecipitation: {"TEXT", "TEXT", "REAL"},
	weather.TableDataCountByStation:   {"TEXT", "INTEGER"},
	weather.TableExtremeConditions:    {"TEXT", "REAL", "REAL", "REAL"},
}

// SQLiteStore is the file-backed store shared by the aggregator and the dashboard.
type SQLiteStore struct {
	db *sql.DB
}

var _ weather.Store = (*SQLiteStore)(nil)

// NewSQLiteStore wraps an already opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLite opens the store at path. A read-only store must already exist.
func OpenSQLite(ctx context.Context, path string, readOnly bool) (*SQLiteStore, error) {
	dsn := path
	if readOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// SQLiteOpener adapts OpenSQLite to weather.StoreOpener for writers.
func SQLiteOpener(path string) weather.StoreOpener {
	return func(ctx context.Context) (weather.Store, error) {
		return OpenSQLite(ctx, path, false)
	}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDataset replaces the four tables one after another, each in its own transaction.
func (s *SQLiteStore) SaveDataset(ctx context.Context, ds weather.Dataset) error {
	for _, t := range ds.Tables() {
		if err := s.replaceTable(ctx, t); err != nil {
			return fmt.Errorf("replace %s: %w", t.Name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) replaceTable(ctx context.Context, t weather.Table) (err error) {
	types, ok := columnTypes[t.Name]
	if !ok || len(types) != len(t.Columns) {
		return fmt.Errorf("unknown table layout %q", t.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(t.Name)); err != nil {
		return err
	}

	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quoteIdent(c) + " " + types[i]
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name), strings.Join(defs, ", "))
	if _, err = tx.ExecContext(ctx, create); err != nil {
		return err
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(t.Name), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RowCount returns the number of rows stored in one of the four tables.
func (s *SQLiteStore) RowCount(ctx context.Context, table string) (int64, error) {
	if !slices.Contains(weather.TableNames, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n)
	return n, err
}

// LoadDataset reads the four tables in stored order.
func (s *SQLiteStore) LoadDataset(ctx context.Context) (weather.Dataset, error) {
	var ds weather.Dataset

	err := s.query(ctx, weather.TableAvgTempOverTime, `SELECT "YearMonth", "AvgTemp"`, func(rows *sql.Rows) error {
		var (
			r   weather.AvgTemp
			avg sql.NullFloat64
		)
		if err := rows.Scan(&r.YearMonth, &avg); err != nil {
			return err
		}
		r.AvgTemp = nullFloat(avg)
		ds.AvgTempOverTime = append(ds.AvgTempOverTime, r)
		return nil
	})
	if err != nil {
		return weather.Dataset{}, err
	}

	err = s.query(ctx, weather.TableMonthlyPrecipitation, `SELECT "YearMonth", "station", "TotalPrecipitation"`, func(rows *sql.Rows) error {
		var (
			r     weather.MonthlyPrecipitation
			total sql.NullFloat64
		)
		if err := rows.Scan(&r.YearMonth, &r.Station, &total); err != nil {
			return err
		}
		r.TotalPrecipitation = nullFloat(total)
		ds.MonthlyPrecipitation = append(ds.MonthlyPrecipitation, r)
		return nil
	})
	if err != nil {
		return weather.Dataset{}, err
	}

	err = s.query(ctx, weather.TableDataCountByStation, `SELECT "station", "DataCount"`, func(rows *sql.Rows) error {
		var r weather.StationCount
		if err := rows.Scan(&r.Station, &r.DataCount); err != nil {
			return err
		}
		ds.DataCountByStation = append(ds.DataCountByStation, r)
		return nil
	})
	if err != nil {
		return weather.Dataset{}, err
	}

	err = s.query(ctx, weather.TableExtremeConditions, `SELECT "station", "MaxTemp", "MinTemp", "MaxWindSpeed"`, func(rows *sql.Rows) error {
		var (
			r                  weather.StationExtremes
			maxT, minT, maxWnd sql.NullFloat64
		)
		if err := rows.Scan(&r.Station, &maxT, &minT, &maxWnd); err != nil {
			return err
		}
		r.MaxTemp, r.MinTemp, r.MaxWindSpeed = nullFloat(maxT), nullFloat(minT), nullFloat(maxWnd)
		ds.ExtremeConditions = append(ds.ExtremeConditions, r)
		return nil
	})
	if err != nil {
		return weather.Dataset{}, err
	}

	return ds, nil
}

func (s *SQLiteStore) query(ctx context.Context, table, selectCols string, scan func(*sql.Rows) error) error {
	q := fmt.Sprintf("%s FROM %s ORDER BY rowid", selectCols, quoteIdent(table))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	return nil
}

// LoadMemoryStore reads the store at path into memory and releases the connection.
func LoadMemoryStore(ctx context.Context, path string) (ms *MemoryStore, err error) {
	s, err := OpenSQLite(ctx, path, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, s.Close())
		if err != nil {
			ms = nil
		}
	}()

	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(ds), nil
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

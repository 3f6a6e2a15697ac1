// Package archive writes exported aggregate samples as Parquet files.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// marshalWorkers is the number of goroutines the writer marshals rows with.
const marshalWorkers int64 = 4

// ParquetArchiver writes one file per table under <dir>/<table>/.
type ParquetArchiver struct {
	dir         string
	compression parquet.CompressionCodec
	now         func() time.Time
	logger      *zap.Logger
}

var _ weather.Archiver = (*ParquetArchiver)(nil)

// NewParquetArchiver creates an archiver. compression is SNAPPY, GZIP or NONE; empty means SNAPPY.
func NewParquetArchiver(dir, compression string, logger *zap.Logger) (*ParquetArchiver, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	codec, err := compressionCodec(compression)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParquetArchiver{dir: dir, compression: codec, now: time.Now, logger: logger}, nil
}

// Archive writes every table of ds. All tables are attempted; failures are combined.
func (a *ParquetArchiver) Archive(ctx context.Context, runID string, ds weather.Dataset) error {
	var result *multierror.Error

	stamp := a.now().UTC().Format("20060102150405")
	write := func(table string, fn func(*writer.ParquetWriter) error, proto interface{}, n int) {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			return
		}
		path := filepath.Join(a.dir, table, fmt.Sprintf("%s_%s_%s.parquet", table, stamp, runID))
		if err := a.writeFile(path, proto, fn); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", table, err))
			return
		}
		a.logger.Info("table archived", zap.String("table", table), zap.String("path", path), zap.Int("rows", n))
	}

	write(weather.TableAvgTempOverTime, func(pw *writer.ParquetWriter) error {
		for _, r := range ds.AvgTempOverTime {
			if err := pw.Write(r); err != nil {
				return err
			}
		}
		return nil
	}, new(weather.AvgTemp), len(ds.AvgTempOverTime))

	write(weather.TableMonthlyPrecipitation, func(pw *writer.ParquetWriter) error {
		for _, r := range ds.MonthlyPrecipitation {
			if err := pw.Write(r); err != nil {
				return err
			}
		}
		return nil
	}, new(weather.MonthlyPrecipitation), len(ds.MonthlyPrecipitation))

	write(weather.TableDataCountByStation, func(pw *writer.ParquetWriter) error {
		for _, r := range ds.DataCountByStation {
			if err := pw.Write(r); err != nil {
				return err
			}
		}
		return nil
	}, new(weather.StationCount), len(ds.DataCountByStation))

	write(weather.TableExtremeConditions, func(pw *writer.ParquetWriter) error {
		for _, r := range ds.ExtremeConditions {
			if err := pw.Write(r); err != nil {
				return err
			}
		}
		return nil
	}, new(weather.StationExtremes), len(ds.ExtremeConditions))

	return result.ErrorOrNil()
}

func (a *ParquetArchiver) writeFile(path string, proto interface{}, fill func(*writer.ParquetWriter) error) (err error) {
	buf := new(bytes.Buffer)

	pw, err := writer.NewParquetWriterFromWriter(buf, proto, marshalWorkers)
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}
	pw.CompressionType = a.compression

	if err := fill(pw); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	// WriteStop panics on some malformed schemas.
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("finalize: %v", r)
			}
		}()
		err = pw.WriteStop()
	}()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func compressionCodec(name string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(name) {
	case "", "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "UNCOMPRESSED":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type %q", name)
	}
}

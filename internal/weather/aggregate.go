package weather

import (
	"context"
	"fmt"

	"github.com/i474232898/central-west-weather/internal/common"
)

// Aggregate runs the four fixed queries against an engine that already holds the raw table.
// Results keep the order produced by the engine.
func Aggregate(ctx context.Context, eng Engine) (Dataset, error) {
	var (
		ds  Dataset
		err error
	)

	if ds.AvgTempOverTime, err = eng.AvgTempOverTime(ctx); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", TableAvgTempOverTime, err)
	}
	if ds.MonthlyPrecipitation, err = eng.MonthlyPrecipitation(ctx); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", TableMonthlyPrecipitation, err)
	}
	if ds.DataCountByStation, err = eng.DataCountByStation(ctx); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", TableDataCountByStation, err)
	}
	if ds.ExtremeConditions, err = eng.ExtremeConditions(ctx); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", TableExtremeConditions, err)
	}

	return ds, nil
}

// Head truncates every table to its first n rows.
func (d Dataset) Head(n int) Dataset {
	return Dataset{
		AvgTempOverTime:      common.Head(d.AvgTempOverTime, n),
		MonthlyPrecipitation: common.Head(d.MonthlyPrecipitation, n),
		DataCountByStation:   common.Head(d.DataCountByStation, n),
		ExtremeConditions:    common.Head(d.ExtremeConditions, n),
	}
}

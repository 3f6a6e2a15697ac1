package dashboard

import (
	"errors"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// PrecipitationChartRows bounds the bar chart to the head of monthly_precipitation.
const PrecipitationChartRows = 50

// ErrEmptyTable is returned when a chart has nothing to draw.
var ErrEmptyTable = errors.New("table has no plottable rows")

// AvgTempChart draws avg_temp_over_time as an SVG line chart, one tick per month.
func AvgTempChart(w io.Writer, rows []weather.AvgTemp) error {
	var (
		xs, ys []float64
		ticks  = make([]chart.Tick, 0, len(rows))
	)
	for i, r := range rows {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: r.YearMonth})
		if weather.IsNull(r.AvgTemp) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, r.AvgTemp)
	}
	if len(ys) == 0 {
		return ErrEmptyTable
	}
	// Pad to at least two X values for go-chart
	if len(xs) == 1 {
		xs = []float64{xs[0] - 0.25, xs[0] + 0.25}
		ys = []float64{ys[0], ys[0]}
	}

	graph := chart.Chart{
		Title:  "Average Temperature Over Time",
		Width:  1000,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:      "Year-Month",
			Ticks:     thinTicks(ticks, 24),
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(len(rows)) - 0.5},
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  "Average Temperature (°C)",
			Range: paddedRange(ys, false),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "AvgTemp",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    4,
				},
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

// PrecipitationChart draws the first PrecipitationChartRows rows of monthly_precipitation
// as bars per month. Months repeated across stations are averaged into one bar.
func PrecipitationChart(w io.Writer, rows []weather.MonthlyPrecipitation) error {
	if len(rows) > PrecipitationChartRows {
		rows = rows[:PrecipitationChartRows]
	}

	type acc struct {
		sum float64
		n   int
	}
	var order []string
	byMonth := make(map[string]*acc)
	for _, r := range rows {
		if weather.IsNull(r.TotalPrecipitation) {
			continue
		}
		a, ok := byMonth[r.YearMonth]
		if !ok {
			a = &acc{}
			byMonth[r.YearMonth] = a
			order = append(order, r.YearMonth)
		}
		a.sum += r.TotalPrecipitation
		a.n++
	}
	if len(order) == 0 {
		return ErrEmptyTable
	}

	bars := make([]chart.Value, 0, len(order))
	ys := make([]float64, 0, len(order))
	for i, ym := range order {
		v := byMonth[ym].sum / float64(byMonth[ym].n)
		ys = append(ys, v)
		bars = append(bars, chart.Value{
			Label: ym,
			Value: v,
			Style: chart.Style{
				FillColor:   barColor(i),
				StrokeColor: barColor(i),
			},
		})
	}

	bc := chart.BarChart{
		Title:    "Monthly Precipitation by Station",
		Width:    1200,
		Height:   700,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  "Total Precipitation (mm)",
			Range: paddedRange(ys, true),
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// paddedRange spans values with a 5% margin; fromZero anchors bars at zero.
func paddedRange(values []float64, fromZero bool) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if fromZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	if fromZero && lo == 0 {
		return &chart.ContinuousRange{Min: 0, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// thinTicks keeps at most limit labels so long month axes stay readable.
func thinTicks(ticks []chart.Tick, limit int) []chart.Tick {
	if len(ticks) <= limit {
		return ticks
	}
	step := (len(ticks) + limit - 1) / limit
	out := make([]chart.Tick, 0, limit+1)
	for i := 0; i < len(ticks); i += step {
		out = append(out, ticks[i])
	}
	return out
}

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorCyan,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorRed,
}

func barColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

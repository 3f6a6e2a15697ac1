package weather

import "math"

// SampleLimit is the number of rows of each aggregate that survive into the store.
const SampleLimit = 500

// Table names in the dashboard-facing store.
const (
	TableAvgTempOverTime      = "avg_temp_over_time"
	TableMonthlyPrecipitation = "monthly_precipitation"
	TableDataCountByStation   = "data_count_by_station"
	TableExtremeConditions    = "extreme_conditions"
)

// TableNames lists the four aggregate tables in export order.
var TableNames = []string{
	TableAvgTempOverTime,
	TableMonthlyPrecipitation,
	TableDataCountByStation,
	TableExtremeConditions,
}

// Columns maps the logical measurements to the raw CSV headers.
type Columns struct {
	Date          string `yaml:"date" validate:"required"`
	Station       string `yaml:"station" validate:"required"`
	Temperature   string `yaml:"temperature" validate:"required"`
	Precipitation string `yaml:"precipitation" validate:"required"`
	WindSpeed     string `yaml:"wind_speed" validate:"required"`
}

// DefaultColumns are the INMET hourly dataset headers.
func DefaultColumns() Columns {
	return Columns{
		Date:          "Data",
		Station:       "station",
		Temperature:   "TEMPERATURA DO AR - BULBO SECO, HORARIA (°C)",
		Precipitation: "PRECIPITAÇÃO TOTAL, HORÁRIO (mm)",
		WindSpeed:     "VENTO, VELOCIDADE HORARIA (m/s)",
	}
}

// AvgTemp is one row of avg_temp_over_time.
type AvgTemp struct {
	YearMonth string  `json:"YearMonth" parquet:"name=year_month, type=BYTE_ARRAY, convertedtype=UTF8"`
	AvgTemp   float64 `json:"AvgTemp" parquet:"name=avg_temp, type=DOUBLE"`
}

// MonthlyPrecipitation is one row of monthly_precipitation.
type MonthlyPrecipitation struct {
	YearMonth          string  `json:"YearMonth" parquet:"name=year_month, type=BYTE_ARRAY, convertedtype=UTF8"`
	Station            string  `json:"station" parquet:"name=station, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalPrecipitation float64 `json:"TotalPrecipitation" parquet:"name=total_precipitation, type=DOUBLE"`
}

// StationCount is one row of data_count_by_station.
type StationCount struct {
	Station   string `json:"station" parquet:"name=station, type=BYTE_ARRAY, convertedtype=UTF8"`
	DataCount int64  `json:"DataCount" parquet:"name=data_count, type=INT64"`
}

// StationExtremes is one row of extreme_conditions.
type StationExtremes struct {
	Station      string  `json:"station" parquet:"name=station, type=BYTE_ARRAY, convertedtype=UTF8"`
	MaxTemp      float64 `json:"MaxTemp" parquet:"name=max_temp, type=DOUBLE"`
	MinTemp      float64 `json:"MinTemp" parquet:"name=min_temp, type=DOUBLE"`
	MaxWindSpeed float64 `json:"MaxWindSpeed" parquet:"name=max_wind_speed, type=DOUBLE"`
}

// Dataset holds the four reduced tables.
type Dataset struct {
	AvgTempOverTime      []AvgTemp
	MonthlyPrecipitation []MonthlyPrecipitation
	DataCountByStation   []StationCount
	ExtremeConditions    []StationExtremes
}

// RowCounts returns the number of rows per table name.
func (d Dataset) RowCounts() map[string]int {
	return map[string]int{
		TableAvgTempOverTime:      len(d.AvgTempOverTime),
		TableMonthlyPrecipitation: len(d.MonthlyPrecipitation),
		TableDataCountByStation:   len(d.DataCountByStation),
		TableExtremeConditions:    len(d.ExtremeConditions),
	}
}

// Table is a column-oriented view of one aggregate used for previews and JSON output.
// Cells hold string, int64, float64 or nil (SQL NULL) values.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Tables returns the dataset as generic tables in TableNames order.
func (d Dataset) Tables() []Table {
	return []Table{
		AvgTempTable(d.AvgTempOverTime),
		PrecipitationTable(d.MonthlyPrecipitation),
		StationCountTable(d.DataCountByStation),
		ExtremesTable(d.ExtremeConditions),
	}
}

// AvgTempTable converts avg_temp_over_time rows.
func AvgTempTable(rows []AvgTemp) Table {
	t := Table{Name: TableAvgTempOverTime, Columns: []string{"YearMonth", "AvgTemp"}, Rows: [][]any{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.YearMonth, measure(r.AvgTemp)})
	}
	return t
}

// PrecipitationTable converts monthly_precipitation rows.
func PrecipitationTable(rows []MonthlyPrecipitation) Table {
	t := Table{Name: TableMonthlyPrecipitation, Columns: []string{"YearMonth", "station", "TotalPrecipitation"}, Rows: [][]any{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.YearMonth, r.Station, measure(r.TotalPrecipitation)})
	}
	return t
}

// StationCountTable converts data_count_by_station rows.
func StationCountTable(rows []StationCount) Table {
	t := Table{Name: TableDataCountByStation, Columns: []string{"station", "DataCount"}, Rows: [][]any{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Station, r.DataCount})
	}
	return t
}

// ExtremesTable converts extreme_conditions rows.
func ExtremesTable(rows []StationExtremes) Table {
	t := Table{Name: TableExtremeConditions, Columns: []string{"station", "MaxTemp", "MinTemp", "MaxWindSpeed"}, Rows: [][]any{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Station, measure(r.MaxTemp), measure(r.MinTemp), measure(r.MaxWindSpeed)})
	}
	return t
}

// IsNull reports whether a measure carries SQL NULL.
func IsNull(v float64) bool {
	return math.IsNaN(v)
}

// measure maps NaN to nil so tables stay JSON-encodable.
func measure(v float64) any {
	if IsNull(v) {
		return nil
	}
	return v
}

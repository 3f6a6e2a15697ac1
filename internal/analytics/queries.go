package analytics

import "fmt"

// yearMonth truncates the date column to "YYYY-MM".
func (d *DuckDB) yearMonth() string {
	return fmt.Sprintf("strftime(CAST(%s AS DATE), '%%Y-%%m')", quoteIdent(d.cols.Date))
}

func (d *DuckDB) station() string {
	return fmt.Sprintf("CAST(%s AS VARCHAR)", quoteIdent(d.cols.Station))
}

func (d *DuckDB) avgTempQuery() string {
	return fmt.Sprintf(`
SELECT %[1]s AS YearMonth,
       CAST(AVG(%[2]s) AS DOUBLE) AS AvgTemp
FROM %[3]s
WHERE %[4]s IS NOT NULL
GROUP BY YearMonth
ORDER BY YearMonth`,
		d.yearMonth(), quoteIdent(d.cols.Temperature), quoteIdent(RawTable), quoteIdent(d.cols.Date))
}

// precipitationQuery keeps only the fully specified (month, station) cells of the cube;
// subtotal and grand-total rows carry NULL keys.
func (d *DuckDB) precipitationQuery() string {
	return fmt.Sprintf(`
WITH hourly AS (
    SELECT %[1]s AS YearMonth,
           %[2]s AS station,
           %[3]s AS precipitation
    FROM %[4]s
)
SELECT YearMonth,
       station,
       CAST(SUM(precipitation) AS DOUBLE) AS TotalPrecipitation
FROM hourly
GROUP BY CUBE (YearMonth, station)
HAVING YearMonth IS NOT NULL AND station IS NOT NULL
ORDER BY YearMonth, station`,
		d.yearMonth(), d.station(), quoteIdent(d.cols.Precipitation), quoteIdent(RawTable))
}

func (d *DuckDB) countQuery() string {
	return fmt.Sprintf(`
SELECT %[1]s AS station,
       COUNT(*) AS DataCount
FROM %[2]s
GROUP BY 1
ORDER BY DataCount DESC, station`,
		d.station(), quoteIdent(RawTable))
}

func (d *DuckDB) extremesQuery() string {
	return fmt.Sprintf(`
SELECT %[1]s AS station,
       CAST(MAX(%[2]s) AS DOUBLE) AS MaxTemp,
       CAST(MIN(%[2]s) AS DOUBLE) AS MinTemp,
       CAST(MAX(%[3]s) AS DOUBLE) AS MaxWindSpeed
FROM %[4]s
GROUP BY 1
ORDER BY MaxTemp DESC NULLS LAST, station`,
		d.station(), quoteIdent(d.cols.Temperature), quoteIdent(d.cols.WindSpeed), quoteIdent(RawTable))
}

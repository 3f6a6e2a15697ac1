// Package testutils holds shared fixtures for package tests.
package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// Header is the INMET header row restricted to the columns the aggregates read,
// plus the hour column that the real dataset carries.
const Header = `Data,Hora,"PRECIPITAÇÃO TOTAL, HORÁRIO (mm)","TEMPERATURA DO AR - BULBO SECO, HORARIA (°C)","VENTO, VELOCIDADE HORARIA (m/s)",station`

// TwoStationsCSV has stations A (3 rows) and B (2 rows) across 2020-01 and 2020-02.
//
//	avg temp:  2020-01 = (20+22+25)/3, 2020-02 = (30+18)/2
//	precip:    (01,A)=2.0 (01,B)=2.0 (02,A)=0.0 (02,B)=3.0
//	extremes:  A max 30 min 20 wind 4.0; B max 25 min 18 wind 5.5
const TwoStationsCSV = Header + `
2020-01-01,00:00,1.5,20.0,2.0,A
2020-01-02,01:00,0.5,22.0,3.5,A
2020-01-15,00:00,2.0,25.0,1.0,B
2020-02-01,00:00,0.0,30.0,4.0,A
2020-02-02,00:00,3.0,18.0,5.5,B
`

// WriteCSV writes content into dir and returns the file path.
func WriteCSV(t testing.TB, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "central_west.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// ManyStationsCSV builds a fixture with n stations, station i carrying i%3+1 rows
// in month 2021-03, so every aggregate keyed by station has n groups.
func ManyStationsCSV(n int) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		for j := 0; j <= i%3; j++ {
			fmt.Fprintf(&b, "2021-03-%02d,00:00,%d.5,%d.25,%d.0,ST%04d\n", j+1, j, 10+i%20, j+1, i)
		}
	}
	return b.String()
}

// TwoStationsDataset is the aggregate of TwoStationsCSV as the store holds it.
func TwoStationsDataset() weather.Dataset {
	return weather.Dataset{
		AvgTempOverTime: []weather.AvgTemp{
			{YearMonth: "2020-01", AvgTemp: (20.0 + 22.0 + 25.0) / 3},
			{YearMonth: "2020-02", AvgTemp: 24.0},
		},
		MonthlyPrecipitation: []weather.MonthlyPrecipitation{
			{YearMonth: "2020-01", Station: "A", TotalPrecipitation: 2.0},
			{YearMonth: "2020-01", Station: "B", TotalPrecipitation: 2.0},
			{YearMonth: "2020-02", Station: "A", TotalPrecipitation: 0.0},
			{YearMonth: "2020-02", Station: "B", TotalPrecipitation: 3.0},
		},
		DataCountByStation: []weather.StationCount{
			{Station: "A", DataCount: 3},
			{Station: "B", DataCount: 2},
		},
		ExtremeConditions: []weather.StationExtremes{
			{Station: "A", MaxTemp: 30.0, MinTemp: 20.0, MaxWindSpeed: 4.0},
			{Station: "B", MaxTemp: 25.0, MinTemp: 18.0, MaxWindSpeed: 5.5},
		},
	}
}

package store

import (
	"errors"
	"fmt"

	"github.com/i474232898/central-west-weather/internal/weather"
)

var (
	// ErrNotFound is returned when a lookup matches no rows.
	ErrNotFound = errors.New("no rows match the selection")
	// ErrOutOfRange is returned for row positions outside the table.
	ErrOutOfRange = errors.New("row index out of range")
)

// MemoryStore keeps the four aggregate tables resident for the dashboard's lifetime.
// It is read-only after construction.
type MemoryStore struct {
	data weather.Dataset

	// station -> positions in data.ExtremeConditions
	extremesByStation map[string][]int
	stations          []string
}

// NewMemoryStore indexes ds for lookups.
func NewMemoryStore(ds weather.Dataset) *MemoryStore {
	s := &MemoryStore{
		data:              ds,
		extremesByStation: make(map[string][]int),
	}
	for i, r := range ds.ExtremeConditions {
		if _, seen := s.extremesByStation[r.Station]; !seen {
			s.stations = append(s.stations, r.Station)
		}
		s.extremesByStation[r.Station] = append(s.extremesByStation[r.Station], i)
	}
	return s
}

// Dataset returns the resident tables.
func (s *MemoryStore) Dataset() weather.Dataset {
	return s.data
}

// Table returns one resident table by name.
func (s *MemoryStore) Table(name string) (weather.Table, error) {
	for _, t := range s.data.Tables() {
		if t.Name == name {
			return t, nil
		}
	}
	return weather.Table{}, fmt.Errorf("table %q: %w", name, ErrNotFound)
}

// Stations returns the distinct stations of extreme_conditions in first-seen order.
func (s *MemoryStore) Stations() []string {
	return s.stations
}

// StationExtremes returns every extreme_conditions row for station.
func (s *MemoryStore) StationExtremes(station string) ([]weather.StationExtremes, error) {
	idx, ok := s.extremesByStation[station]
	if !ok {
		return nil, fmt.Errorf("station %q: %w", station, ErrNotFound)
	}
	out := make([]weather.StationExtremes, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.data.ExtremeConditions[i])
	}
	return out, nil
}

// PrecipitationBounds returns the valid slider range over monthly_precipitation.
// ok is false when the table is empty.
func (s *MemoryStore) PrecipitationBounds() (min, max int, ok bool) {
	n := len(s.data.MonthlyPrecipitation)
	if n == 0 {
		return 0, 0, false
	}
	return 0, n - 1, true
}

// PrecipitationAt returns the monthly_precipitation row at position i.
func (s *MemoryStore) PrecipitationAt(i int) (weather.MonthlyPrecipitation, error) {
	rows := s.data.MonthlyPrecipitation
	if len(rows) == 0 {
		return weather.MonthlyPrecipitation{}, fmt.Errorf("%s is empty: %w", weather.TableMonthlyPrecipitation, ErrNotFound)
	}
	if i < 0 || i >= len(rows) {
		return weather.MonthlyPrecipitation{}, fmt.Errorf("index %d not in [0, %d]: %w", i, len(rows)-1, ErrOutOfRange)
	}
	return rows[i], nil
}

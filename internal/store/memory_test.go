package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/central-west-weather/internal/weather"
)

func TestMemoryStoreStationExtremes(t *testing.T) {
	ms := NewMemoryStore(sampleDataset())

	rows, err := ms.StationExtremes("A")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Station)
	assert.Equal(t, 30.0, rows[0].MaxTemp)

	_, err = ms.StationExtremes("Z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreStationsKeepFirstSeenOrder(t *testing.T) {
	ms := NewMemoryStore(weather.Dataset{
		ExtremeConditions: []weather.StationExtremes{
			{Station: "C"}, {Station: "A"}, {Station: "C"}, {Station: "B"},
		},
	})
	assert.Equal(t, []string{"C", "A", "B"}, ms.Stations())

	rows, err := ms.StationExtremes("C")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMemoryStorePrecipitationAt(t *testing.T) {
	ms := NewMemoryStore(sampleDataset())

	min, max, ok := ms.PrecipitationBounds()
	require.True(t, ok)
	assert.Equal(t, 0, min)
	assert.Equal(t, 1, max)

	row, err := ms.PrecipitationAt(1)
	require.NoError(t, err)
	assert.Equal(t, "B", row.Station)

	_, err = ms.PrecipitationAt(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = ms.PrecipitationAt(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemoryStoreEmptyPrecipitation(t *testing.T) {
	ms := NewMemoryStore(weather.Dataset{})

	_, _, ok := ms.PrecipitationBounds()
	assert.False(t, ok)
	_, err := ms.PrecipitationAt(0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTable(t *testing.T) {
	ms := NewMemoryStore(sampleDataset())

	tbl, err := ms.Table(weather.TableExtremeConditions)
	require.NoError(t, err)
	assert.Equal(t, []string{"station", "MaxTemp", "MinTemp", "MaxWindSpeed"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Nil(t, tbl.Rows[1][3], "NaN measures become nil")

	_, err = ms.Table("raw")
	assert.ErrorIs(t, err, ErrNotFound)
}

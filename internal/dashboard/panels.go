package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// ErrUnknownPanel is returned for chart names outside the chart panels.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel is one block of the visualizations page.
type Panel int

const (
	PanelAvgTemp Panel = iota
	PanelPrecipitation
	PanelStationCloud
	PanelStationExtremes
	PanelMonthLookup
)

// Panels lists the visualizations in display order.
var Panels = []Panel{PanelAvgTemp, PanelPrecipitation, PanelStationCloud, PanelStationExtremes, PanelMonthLookup}

var panelInfo = map[Panel]struct{ slug, heading string }{
	PanelAvgTemp:         {"avg-temp", "Average Temperature Over Time"},
	PanelPrecipitation:   {"precipitation", "Monthly Precipitation by Station"},
	PanelStationCloud:    {"stations", "Word Cloud of Station Names"},
	PanelStationExtremes: {"station-extremes", "Select a station to view extreme conditions"},
	PanelMonthLookup:     {"month-lookup", "Select a month index to view precipitation"},
}

// ParsePanel resolves a chart slug. Only panels backed by a chart resolve.
func ParsePanel(slug string) (Panel, error) {
	for _, p := range Panels {
		if panelInfo[p].slug == slug && p.IsChart() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPanel, slug)
}

// Slug is the URL segment of the panel.
func (p Panel) Slug() string { return panelInfo[p].slug }

// Heading is the caption shown above the panel.
func (p Panel) Heading() string { return panelInfo[p].heading }

func (p Panel) String() string { return p.Slug() }

// IsChart reports whether the panel renders as an SVG image.
func (p Panel) IsChart() bool {
	switch p {
	case PanelAvgTemp, PanelPrecipitation, PanelStationCloud:
		return true
	default:
		return false
	}
}

// ChartSVG renders a chart panel from the resident tables.
func ChartSVG(dc *Context, p Panel) ([]byte, error) {
	ds := dc.Store.Dataset()
	var buf bytes.Buffer
	var err error
	switch p {
	case PanelAvgTemp:
		err = AvgTempChart(&buf, ds.AvgTempOverTime)
	case PanelPrecipitation:
		err = PrecipitationChart(&buf, ds.MonthlyPrecipitation)
	case PanelStationCloud:
		err = StationCloud(&buf, ds.DataCountByStation)
	default:
		return nil, fmt.Errorf("%w: %s has no chart", ErrUnknownPanel, p)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p, err)
	}
	return buf.Bytes(), nil
}

// Selection carries the interactive inputs of the visualizations page.
// A nil Station selects the first one; an empty name is a real station.
type Selection struct {
	Station    *string
	MonthIndex int
}

// StationSelection selects station explicitly.
func StationSelection(station string, monthIndex int) Selection {
	return Selection{Station: &station, MonthIndex: monthIndex}
}

// Slider describes the month-index input.
type Slider struct {
	Min, Max, Value int
}

// PanelView is one rendered panel.
type PanelView struct {
	Slug    string
	Heading string

	// Chart panels
	SVG    template.HTML
	Notice string

	// Lookup panels
	Stations []string
	Selected string
	Slider   *Slider
	Rows     PreviewTable
}

func renderPanel(dc *Context, p Panel, sel Selection) (PanelView, error) {
	pv := PanelView{Slug: p.Slug(), Heading: p.Heading()}

	switch p {
	case PanelAvgTemp, PanelPrecipitation, PanelStationCloud:
		svg, err := ChartSVG(dc, p)
		if errors.Is(err, ErrEmptyTable) {
			pv.Notice = "No data available for this chart."
			return pv, nil
		}
		if err != nil {
			return pv, err
		}
		// Generated by our own renderers; word cloud text is escaped.
		pv.SVG = template.HTML(svg)

	case PanelStationExtremes:
		pv.Stations = dc.Store.Stations()
		if len(pv.Stations) == 0 {
			pv.Notice = "No stations available."
			return pv, nil
		}
		pv.Selected = pv.Stations[0]
		if sel.Station != nil {
			pv.Selected = *sel.Station
		}
		rows, err := dc.Store.StationExtremes(pv.Selected)
		if err != nil {
			return pv, err
		}
		pv.Rows = Preview(weather.ExtremesTable(rows))

	case PanelMonthLookup:
		lo, hi, ok := dc.Store.PrecipitationBounds()
		if !ok {
			pv.Notice = "No precipitation rows available."
			return pv, nil
		}
		row, err := dc.Store.PrecipitationAt(sel.MonthIndex)
		if err != nil {
			return pv, err
		}
		pv.Slider = &Slider{Min: lo, Max: hi, Value: sel.MonthIndex}
		pv.Rows = Preview(weather.PrecipitationTable([]weather.MonthlyPrecipitation{row}))

	default:
		return pv, fmt.Errorf("%w: %d", ErrUnknownPanel, int(p))
	}
	return pv, nil
}

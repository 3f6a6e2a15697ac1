package dashboard

import (
	"fmt"
	"html/template"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/central-west-weather/internal/weather"
)

// viridis anchor colors at 0, .25, .5, .75 and 1.
var viridis = []drawing.Color{
	{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
	{R: 0x3b, G: 0x52, B: 0x8b, A: 0xff},
	{R: 0x21, G: 0x91, B: 0x8c, A: 0xff},
	{R: 0x5e, G: 0xc9, B: 0x62, A: 0xff},
	{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
}

// Cell is one rendered table cell.
type Cell struct {
	Text  string
	Style template.CSS
}

// PreviewTable is a table with per-cell gradient styles.
type PreviewTable struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// Preview styles every numeric column of t with a viridis gradient scaled to the
// column's own min and max. Text columns and NULL cells stay unstyled.
func Preview(t weather.Table) PreviewTable {
	out := PreviewTable{Name: t.Name, Columns: t.Columns, Rows: make([][]Cell, len(t.Rows))}

	lo := make([]float64, len(t.Columns))
	hi := make([]float64, len(t.Columns))
	for c := range t.Columns {
		lo[c], hi[c] = math.Inf(1), math.Inf(-1)
	}
	for _, row := range t.Rows {
		for c, v := range row {
			if f, ok := numeric(v); ok {
				lo[c] = math.Min(lo[c], f)
				hi[c] = math.Max(hi[c], f)
			}
		}
	}

	for i, row := range t.Rows {
		cells := make([]Cell, len(row))
		for c, v := range row {
			cells[c] = Cell{Text: formatCell(v)}
			f, ok := numeric(v)
			if !ok {
				continue
			}
			pos := 0.0
			if hi[c] > lo[c] {
				pos = (f - lo[c]) / (hi[c] - lo[c])
			}
			bg := Viridis(pos)
			fg := "#000000"
			if luminance(bg) < 0.408 {
				fg = "#f1f1f1"
			}
			cells[c].Style = template.CSS(fmt.Sprintf("background-color: %s; color: %s", hexColor(bg), fg))
		}
		out.Rows[i] = cells
	}
	return out
}

// Viridis maps pos in [0, 1] onto the viridis colormap.
func Viridis(pos float64) drawing.Color {
	pos = math.Max(0, math.Min(1, pos))
	scaled := pos * float64(len(viridis)-1)
	i := int(math.Floor(scaled))
	if i >= len(viridis)-1 {
		return viridis[len(viridis)-1]
	}
	frac := scaled - float64(i)
	a, b := viridis[i], viridis[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return drawing.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}

// luminance is the WCAG relative luminance.
func luminance(c drawing.Color) float64 {
	channel := func(v uint8) float64 {
		x := float64(v) / 255
		if x <= 0.04045 {
			return x / 12.92
		}
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

func hexColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func formatCell(v any) string {
	switch n := v.(type) {
	case nil:
		return "nan"
	case float64:
		return fmt.Sprintf("%.6f", n)
	case int64:
		return fmt.Sprintf("%d", n)
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}

package dashboard

import (
	"fmt"
	"html/template"
)

// NavItem is one entry of the page selector.
type NavItem struct {
	Slug   string
	Label  string
	Active bool
}

// View is everything a page template needs.
type View struct {
	Page     string
	Title    string
	Nav      []NavItem
	Markdown template.HTML
	Tables   []PreviewTable
	Panels   []PanelView

	// Resolved visualizations inputs, echoed so each form keeps the other's value.
	Station     string
	HasStations bool
	MonthIndex  int
}

// Render builds the view for page. sel is only read by the visualizations page.
func Render(dc *Context, page Page, sel Selection) (View, error) {
	v := View{
		Page:  page.Slug(),
		Title: page.Title(),
		Nav:   nav(page),
	}

	switch page {
	case PageStory, PageQuestions, PageInsights:
		v.Markdown = dc.static[page]

	case PageSamples:
		for _, t := range dc.Store.Dataset().Tables() {
			v.Tables = append(v.Tables, Preview(t))
		}

	case PageVisualizations:
		v.MonthIndex = sel.MonthIndex
		for _, p := range Panels {
			pv, err := renderPanel(dc, p, sel)
			if err != nil {
				return View{}, err
			}
			if p == PanelStationExtremes {
				v.Station, v.HasStations = pv.Selected, len(pv.Stations) > 0
			}
			v.Panels = append(v.Panels, pv)
		}

	default:
		return View{}, fmt.Errorf("%w: %d", ErrUnknownPage, int(page))
	}
	return v, nil
}

func nav(active Page) []NavItem {
	items := make([]NavItem, 0, len(Pages))
	for _, p := range Pages {
		items = append(items, NavItem{Slug: p.Slug(), Label: p.Label(), Active: p == active})
	}
	return items
}

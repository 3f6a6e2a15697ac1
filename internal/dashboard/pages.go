package dashboard

import (
	"errors"
	"fmt"
)

// ErrUnknownPage is returned for navigation targets outside the five views.
var ErrUnknownPage = errors.New("unknown page")

// Page is one of the five mutually exclusive dashboard views.
type Page int

const (
	PageStory Page = iota
	PageQuestions
	PageInsights
	PageSamples
	PageVisualizations
)

// Pages lists the views in navigation order.
var Pages = []Page{PageStory, PageQuestions, PageInsights, PageSamples, PageVisualizations}

var pageInfo = map[Page]struct{ slug, label, title string }{
	PageStory:          {"story", "Story", "The Story"},
	PageQuestions:      {"questions", "Questions", "Key Questions"},
	PageInsights:       {"insights", "Summary and Insights", "Summary and Insights"},
	PageSamples:        {"samples", "Sample Rows", "Sample Data from Tables"},
	PageVisualizations: {"visualizations", "Visualizations", "Visualizations"},
}

// ParsePage resolves a URL slug.
func ParsePage(slug string) (Page, error) {
	for _, p := range Pages {
		if pageInfo[p].slug == slug {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPage, slug)
}

// Slug is the URL segment of the page.
func (p Page) Slug() string { return pageInfo[p].slug }

// Label is the navigation caption.
func (p Page) Label() string { return pageInfo[p].label }

// Title is the page heading.
func (p Page) Title() string { return pageInfo[p].title }

func (p Page) String() string { return p.Slug() }

// staticMarkdown is the body of the pages without a data dependency.
var staticMarkdown = map[Page]string{
	PageStory: `
### Central West Brazil Weather Analysis
This dashboard explores weather patterns in Central West Brazil using data from 623 weather stations.

#### About the Data:
- **Source**: INMET (National Meteorological Institute of Brazil).
- **Data Points**: The dataset contains over 11 million rows, covering hourly weather data.
- **Key Variables**: Temperature, precipitation, wind speed, solar radiation, and more.
- **Focus Area**: Central West Brazil, a region known for its diverse climate and critical agricultural activities.

#### Objectives:
The analysis aims to:
- Identify seasonal patterns in temperature and precipitation.
- Understand the spatial distribution of extreme weather conditions.
- Provide actionable insights for agriculture and environmental planning.
`,
	PageQuestions: `
### The key questions our analysis answers:
1. What is the average temperature throughout each period?
2. What is the total amount of precipitation at each station and month?
3. How many lines (measurements) are there at each station?
4. What are the maximum and minimum temperatures and maximum wind speed at each station?
`,
	PageInsights: `
### Key Findings:
- **Temperature Trends**: The northern areas of Central West Brazil consistently show higher average temperatures.
- **Rainfall Patterns**: Rainfall peaks during January and February, with notable dry seasons in mid-year.
- **Extreme Conditions**: High wind speeds are strongly associated with mountainous regions, suggesting increased vulnerability to extreme weather.

### Recommendations:
- Implement water management systems to utilize peak rainfall periods.
- Monitor northern regions for heatwaves and their potential impact on agriculture.
- Enhance infrastructure in mountainous areas to withstand extreme wind conditions.
`,
}

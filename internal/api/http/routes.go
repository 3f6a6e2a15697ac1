package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/central-west-weather/internal/dashboard"
	"github.com/i474232898/central-west-weather/internal/store"
	"github.com/i474232898/central-west-weather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the dashboard pages, charts and JSON API into the Fiber app.
func RegisterRoutes(app *fiber.App, dc *dashboard.Context, m Metrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "central-west-weather",
		})
	})

	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/views/" + dashboard.PageStory.Slug())
	})

	app.Get("/views/:page", func(c *fiber.Ctx) error {
		page, err := dashboard.ParsePage(c.Params("page"))
		if err != nil {
			return httpError(err)
		}

		var sel dashboard.Selection
		if page == dashboard.PageVisualizations {
			q, err := parseSelection(c)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			sel = q.toSelection()
		}

		view, err := dashboard.Render(dc, page, sel)
		if err != nil {
			return httpError(err)
		}
		if m != nil {
			m.ObserveView(page.Slug())
		}
		return c.Render("page", view)
	})

	app.Get("/charts/:file", func(c *fiber.Ctx) error {
		name, ok := strings.CutSuffix(c.Params("file"), ".svg")
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "charts are served as .svg")
		}
		panel, err := dashboard.ParsePanel(name)
		if err != nil {
			return httpError(err)
		}
		svg, err := dashboard.ChartSVG(dc, panel)
		if err != nil {
			return httpError(err)
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.Send(svg)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/tables/:name", func(c *fiber.Ctx) error {
		t, err := dc.Store.Table(c.Params("name"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(t)
	})

	v1.Get("/extremes", func(c *fiber.Ctx) error {
		q := stationQuery{Station: c.Query("station"), Present: hasQuery(c, "station")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		rows, err := dc.Store.StationExtremes(q.Station)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(weather.ExtremesTable(rows))
	})

	v1.Get("/precipitation/:index", func(c *fiber.Ctx) error {
		idx, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}
		row, err := dc.Store.PrecipitationAt(idx)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(weather.PrecipitationTable([]weather.MonthlyPrecipitation{row}))
	})
}

// stationQuery holds the query parameters of the extremes lookup.
// An empty station name is valid; the parameter itself is required.
type stationQuery struct {
	Station string `validate:"max=256"`
	Present bool   `validate:"eq=true"`
}

// selectionQuery holds the interactive inputs of the visualizations page.
type selectionQuery struct {
	Station    string `validate:"max=256"`
	HasStation bool
	MonthIndex int `validate:"gte=0"`
}

func (q selectionQuery) toSelection() dashboard.Selection {
	if !q.HasStation {
		return dashboard.Selection{MonthIndex: q.MonthIndex}
	}
	return dashboard.StationSelection(q.Station, q.MonthIndex)
}

func parseSelection(c *fiber.Ctx) (selectionQuery, error) {
	q := selectionQuery{Station: c.Query("station"), HasStation: hasQuery(c, "station")}

	if s := c.Query("month_index"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("month_index must be an integer")
		}
		q.MonthIndex = n
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// hasQuery reports whether key was sent, even with an empty value.
func hasQuery(c *fiber.Ctx, key string) bool {
	return c.Context().QueryArgs().Has(key)
}

// httpError maps domain errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, dashboard.ErrUnknownPage),
		errors.Is(err, dashboard.ErrUnknownPanel),
		errors.Is(err, dashboard.ErrEmptyTable):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrOutOfRange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

package httpapi

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"github.com/i474232898/central-west-weather/internal/dashboard"
)

//go:embed views/*.html
var viewsFS embed.FS

// Metrics is the instrumentation the dashboard reports to.
type Metrics interface {
	ObserveView(page string)
	Handler() http.Handler
}

// NewApp builds the dashboard's Fiber app with templates, middleware and routes.
// m may be nil, in which case /metrics is not served.
func NewApp(dc *dashboard.Context, m Metrics, log *zap.Logger) (*fiber.App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "central-west-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		Views:                 engine,
		ViewsLayout:           "layout",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	RegisterRoutes(app, dc, m)
	return app, nil
}

// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/printforge/weightsync/internal/handler"
	"github.com/printforge/weightsync/internal/middleware"
)

// New builds the Echo instance with the full middleware chain and all
// routes registered.
//
// Middleware order matters: the request ID must exist before the
// context enhancer builds the request-scoped logger, and the New Relic
// transaction must exist before anything tries to attach attributes to
// it.
func New(middlewares *middleware.Middlewares, handlers *handler.Handlers) *echo.Echo {
	r := echo.New()
	r.HideBanner = true
	r.HidePort = true

	r.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	r.Use(middlewares.Global.Recover())
	r.Use(middlewares.Global.Secure())
	r.Use(middlewares.Global.CORS())
	r.Use(middlewares.Tracing.NewRelicMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middlewares.ContextEnhancer.EnhanceContext())
	r.Use(middlewares.Tracing.EnhanceTracing())
	r.Use(middlewares.Global.RequestLogger())
	r.Use(middlewares.RateLimit.Limit())

	registerSystemRoutes(r, handlers)
	registerPrinterRoutes(r, handlers)

	return r
}

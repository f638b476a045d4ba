package router

import (
	"github.com/labstack/echo/v4"

	"github.com/printforge/weightsync/internal/handler"
)

// registerSystemRoutes wires operational endpoints that sit outside
// the API surface proper.
func registerSystemRoutes(r *echo.Echo, handlers *handler.Handlers) {
	r.GET("/status", handlers.Health.CheckHealth)
}

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/printforge/weightsync/internal/handler"
)

// registerPrinterRoutes wires the printer weight-sync endpoints.
func registerPrinterRoutes(r *echo.Echo, handlers *handler.Handlers) {
	printers := r.Group("/printers")

	printers.GET("", handler.Handle(
		handlers.Printers.Handler,
		handlers.Printers.ListPrinters,
		http.StatusOK,
		func() *handler.ListPrintersRequest { return &handler.ListPrintersRequest{} },
	))

	printers.GET("/syncWeight", handler.Handle(
		handlers.Printers.Handler,
		handlers.Printers.SyncWeight,
		http.StatusOK,
		func() *handler.SyncWeightRequest { return &handler.SyncWeightRequest{} },
	))
}

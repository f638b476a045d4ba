package handler

import (
	"github.com/printforge/weightsync/internal/server"
	"github.com/printforge/weightsync/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup receives one object instead of many.
type Handlers struct {
	Health   *HealthHandler   // Health serves the service health endpoint.
	Printers *PrintersHandler // Printers serves the weight sync and fleet listing endpoints.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		Printers: NewPrintersHandler(s, services),
	}
}

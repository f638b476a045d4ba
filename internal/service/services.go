// Package service contains the business logic.
//
// It sits between the handler layer and the monday.com client. It
// receives validated data from the handler, applies the matching and
// adjustment rules, and calls the board client to read and mutate
// external state.
package service

import (
	"github.com/printforge/weightsync/internal/server"
)

type Services struct {
	WeightSync *WeightSyncService
}

func NewService(s *server.Server) (*Services, error) {
	weightSyncService := NewWeightSyncService(s)

	return &Services{
		WeightSync: weightSyncService,
	}, nil
}

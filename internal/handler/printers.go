package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/printforge/weightsync/internal/server"
	"github.com/printforge/weightsync/internal/service"
	"github.com/printforge/weightsync/internal/validation"
)

var validate = validator.New()

// PrintersHandler serves the weight sync endpoint and the read-only
// fleet listing.
type PrintersHandler struct {
	Handler
	weightSync *service.WeightSyncService
}

// NewPrintersHandler constructs a PrintersHandler.
func NewPrintersHandler(s *server.Server, services *service.Services) *PrintersHandler {
	return &PrintersHandler{
		Handler:    NewHandler(s),
		weightSync: services.WeightSync,
	}
}

// SyncWeightRequest carries the two required query parameters of the
// sync endpoint. Both must be present; prog is kept as text here and
// parsed by the service so a non-numeric value surfaces as an
// INVALID_NUMERIC_INPUT error rather than a bind failure.
type SyncWeightRequest struct {
	Printer string `query:"printer" validate:"required"`
	Prog    string `query:"prog" validate:"required"`
}

// Validate applies the struct's validation tags plus a blankness
// check tags cannot express: a whitespace-only printer or prog passes
// `required` but can never match a board row, so it is rejected here
// before any outbound call.
func (r *SyncWeightRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	var custom validation.CustomValidationErrors
	if strings.TrimSpace(r.Printer) == "" {
		custom = append(custom, validation.CustomValidationError{Field: "printer", Message: "must not be blank"})
	}
	if strings.TrimSpace(r.Prog) == "" {
		custom = append(custom, validation.CustomValidationError{Field: "prog", Message: "must not be blank"})
	}
	if len(custom) > 0 {
		return custom
	}

	return nil
}

// SyncWeightResponse is the success body of the sync endpoint.
type SyncWeightResponse struct {
	Result string `json:"result"`
}

// SyncWeight runs one weight sync for the requested printer.
func (h *PrintersHandler) SyncWeight(c echo.Context, req *SyncWeightRequest) (SyncWeightResponse, error) {
	if _, err := h.weightSync.SyncWeight(c.Request().Context(), req.Printer, req.Prog); err != nil {
		return SyncWeightResponse{}, err
	}

	return SyncWeightResponse{Result: "success"}, nil
}

// ListPrintersRequest is the (empty) payload of the fleet listing.
type ListPrintersRequest struct{}

func (r *ListPrintersRequest) Validate() error {
	return nil
}

// ListPrintersResponse is the body of the fleet listing.
type ListPrintersResponse struct {
	Result   string                  `json:"result"`
	Printers []service.PrinterStatus `json:"printers"`
}

// ListPrinters returns the job board's rows.
func (h *PrintersHandler) ListPrinters(c echo.Context, req *ListPrintersRequest) (ListPrintersResponse, error) {
	printers, err := h.weightSync.ListPrinters(c.Request().Context())
	if err != nil {
		return ListPrintersResponse{}, err
	}

	return ListPrintersResponse{
		Result:   "success",
		Printers: printers,
	}, nil
}

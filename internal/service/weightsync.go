package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/printforge/weightsync/internal/config"
	"github.com/printforge/weightsync/internal/errs"
	"github.com/printforge/weightsync/internal/monday"
	"github.com/printforge/weightsync/internal/server"
)

// BoardClient is the slice of the monday client the sync needs: one
// read of the job board and one adjustment write. *monday.Client
// satisfies it; tests substitute fakes.
type BoardClient interface {
	BoardItems(ctx context.Context) ([]monday.Item, error)
	SubtractWeight(ctx context.Context, item monday.Item, amount float64) error
}

// WeightSyncService computes and applies incremental filament weight
// for a printer's active job.
type WeightSyncService struct {
	cfg   config.MondayConfig
	board BoardClient
	log   *zerolog.Logger
}

// NewWeightSyncService constructs the service from the application
// container.
func NewWeightSyncService(s *server.Server) *WeightSyncService {
	return &WeightSyncService{
		cfg:   s.Config.Monday,
		board: s.Monday,
		log:   s.Logger,
	}
}

// SyncResult reports what a completed sync did.
type SyncResult struct {
	// ItemID is the board item whose running total was adjusted.
	ItemID string

	// ItemName is that item's display name.
	ItemName string

	// InstantWeight is the amount subtracted from the running total:
	// the job's weight column value multiplied by the progress
	// fraction.
	InstantWeight float64
}

// SyncWeight runs one sync for the given printer at the given progress
// fraction.
//
// Order of operations is deliberate: every input is parsed and the
// match resolved to exactly one item before any side-effecting call is
// made. Zero matching items and more than one matching item are both
// terminal errors, and in neither case does an adjustment fire.
func (ws *WeightSyncService) SyncWeight(ctx context.Context, printer, prog string) (*SyncResult, error) {
	progValue, err := parseDecimal(prog)
	if err != nil {
		return nil, errs.NewInvalidNumericInputError("prog", prog)
	}

	items, err := ws.board.BoardItems(ctx)
	if err != nil {
		return nil, err
	}

	matches := ws.matchItems(items, printer)

	switch len(matches) {
	case 0:
		return nil, errs.NewNoMatchingItemError(printer)
	case 1:
		// fall through
	default:
		ws.log.Warn().
			Str("printer", printer).
			Int("matches", len(matches)).
			Msg("refusing to sync: printer matches multiple board items")
		return nil, errs.NewAmbiguousMatchError(printer, len(matches))
	}

	item := matches[0]

	weightText := item.Column(ws.cfg.WeightColumnID)
	weight, err := parseDecimal(weightText)
	if err != nil {
		return nil, errs.NewInvalidNumericInputError("weight", weightText)
	}

	instant := weight * progValue

	if err := ws.board.SubtractWeight(ctx, item, instant); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return nil, httpErr
		}
		return nil, errs.NewDownstreamAdjustmentError(err)
	}

	ws.log.Info().
		Str("printer", printer).
		Str("item", item.Name).
		Float64("progress", progValue).
		Float64("instant_weight", instant).
		Msg("weight sync completed")

	return &SyncResult{
		ItemID:        item.ID,
		ItemName:      item.Name,
		InstantWeight: instant,
	}, nil
}

// matchItems collects every board item whose status column carries the
// configured sync status and whose printer column names the requested
// printer. Both comparisons are case-insensitive; the caller enforces
// the exactly-one policy on the result.
func (ws *WeightSyncService) matchItems(items []monday.Item, printer string) []monday.Item {
	var matches []monday.Item
	for _, item := range items {
		if !strings.EqualFold(item.Column(ws.cfg.StatusColumnID), ws.cfg.SyncStatus) {
			continue
		}
		if !strings.EqualFold(item.Column(ws.cfg.PrinterColumnID), printer) {
			continue
		}
		matches = append(matches, item)
	}
	return matches
}

// PrinterStatus is one row of the fleet listing.
type PrinterStatus struct {
	Name      string `json:"name"`
	Printer   string `json:"printer"`
	Status    string `json:"status"`
	Weight    string `json:"weight"`
	Remaining string `json:"remaining"`
}

// ListPrinters returns the board's job rows as a read-only fleet view.
func (ws *WeightSyncService) ListPrinters(ctx context.Context) ([]PrinterStatus, error) {
	items, err := ws.board.BoardItems(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]PrinterStatus, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, PrinterStatus{
			Name:      item.Name,
			Printer:   item.Column(ws.cfg.PrinterColumnID),
			Status:    item.Column(ws.cfg.StatusColumnID),
			Weight:    item.Column(ws.cfg.WeightColumnID),
			Remaining: item.Column(ws.cfg.RemainingColumnID),
		})
	}

	return statuses, nil
}

// parseDecimal parses a strictly numeric string. Unlike a raw
// ParseFloat it rejects NaN and infinities, since a NaN progress or
// weight would otherwise propagate silently into the board mutation.
func parseDecimal(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, err
	}
	if value != value || value > maxDecimal || value < -maxDecimal {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

// maxDecimal bounds accepted numeric inputs; anything beyond it is a
// data error, not a real weight or progress value.
const maxDecimal = 1e12

package service

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/printforge/weightsync/internal/config"
	"github.com/printforge/weightsync/internal/errs"
	"github.com/printforge/weightsync/internal/monday"
)

type fakeBoard struct {
	items    []monday.Item
	itemsErr error

	subtractErr   error
	subtractCalls int
	lastItem      monday.Item
	lastAmount    float64
}

func (f *fakeBoard) BoardItems(ctx context.Context) ([]monday.Item, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items, nil
}

func (f *fakeBoard) SubtractWeight(ctx context.Context, item monday.Item, amount float64) error {
	f.subtractCalls++
	f.lastItem = item
	f.lastAmount = amount
	return f.subtractErr
}

func testMondayConfig() config.MondayConfig {
	return config.MondayConfig{
		APIURL:            "https://api.monday.com/v2",
		Token:             "test-token",
		BoardID:           "123",
		StatusColumnID:    "status",
		PrinterColumnID:   "text",
		WeightColumnID:    "numbers",
		RemainingColumnID: "numbers9",
		SyncStatus:        config.DefaultSyncStatus,
	}
}

func newTestService(board *fakeBoard) *WeightSyncService {
	log := zerolog.Nop()
	return &WeightSyncService{
		cfg:   testMondayConfig(),
		board: board,
		log:   &log,
	}
}

func boardItem(id, name, status, printer, weight string) monday.Item {
	return monday.Item{
		ID:   id,
		Name: name,
		Columns: map[string]string{
			"status":   status,
			"text":     printer,
			"numbers":  weight,
			"numbers9": "500",
		},
	}
}

func httpErrCode(t *testing.T, err error) string {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T: %v", err, err)
	}
	return httpErr.Code
}

func TestSyncWeightSingleMatch(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "Paid/Printing", "ultimaker-01", "120"),
		boardItem("2", "vase", "Done", "ultimaker-01", "80"),
		boardItem("3", "bracket", "Paid/Printing", "ultimaker-02", "60"),
	}}
	ws := newTestService(board)

	result, err := ws.SyncWeight(context.Background(), "ultimaker-01", "0.25")
	if err != nil {
		t.Fatalf("SyncWeight returned error: %v", err)
	}

	if board.subtractCalls != 1 {
		t.Fatalf("expected exactly one adjustment, got %d", board.subtractCalls)
	}
	if board.lastItem.ID != "1" {
		t.Errorf("adjusted wrong item: %s", board.lastItem.ID)
	}
	if want := 120 * 0.25; math.Abs(board.lastAmount-want) > 1e-9 {
		t.Errorf("adjusted amount = %v, want %v", board.lastAmount, want)
	}
	if result.ItemName != "benchy" || math.Abs(result.InstantWeight-30) > 1e-9 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSyncWeightMatchingIsCaseInsensitive(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "PAID/PRINTING", "Ultimaker-01", "100"),
	}}
	ws := newTestService(board)

	if _, err := ws.SyncWeight(context.Background(), "ULTIMAKER-01", "0.5"); err != nil {
		t.Fatalf("SyncWeight returned error: %v", err)
	}
	if board.subtractCalls != 1 {
		t.Fatalf("expected one adjustment, got %d", board.subtractCalls)
	}
}

func TestSyncWeightNoMatchingItem(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "Done", "ultimaker-01", "120"),
	}}
	ws := newTestService(board)

	_, err := ws.SyncWeight(context.Background(), "ultimaker-01", "0.5")
	if code := httpErrCode(t, err); code != errs.CodeNoMatchingItem {
		t.Errorf("error code = %s, want %s", code, errs.CodeNoMatchingItem)
	}
	if board.subtractCalls != 0 {
		t.Errorf("no adjustment may fire on zero matches, got %d", board.subtractCalls)
	}
}

func TestSyncWeightAmbiguousMatch(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "Paid/Printing", "ultimaker-01", "120"),
		boardItem("2", "vase", "Paid/Printing", "ultimaker-01", "80"),
	}}
	ws := newTestService(board)

	_, err := ws.SyncWeight(context.Background(), "ultimaker-01", "0.5")
	if code := httpErrCode(t, err); code != errs.CodeAmbiguousMatch {
		t.Errorf("error code = %s, want %s", code, errs.CodeAmbiguousMatch)
	}
	if board.subtractCalls != 0 {
		t.Errorf("no adjustment may fire on an ambiguous match, got %d", board.subtractCalls)
	}
}

func TestSyncWeightInvalidProg(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "Paid/Printing", "ultimaker-01", "120"),
	}}
	ws := newTestService(board)

	for _, prog := range []string{"abc", "", "NaN", "Inf", "1e99"} {
		_, err := ws.SyncWeight(context.Background(), "ultimaker-01", prog)
		if code := httpErrCode(t, err); code != errs.CodeInvalidNumericInput {
			t.Errorf("prog %q: error code = %s, want %s", prog, code, errs.CodeInvalidNumericInput)
		}
	}
	if board.subtractCalls != 0 {
		t.Errorf("no adjustment may fire on invalid input, got %d", board.subtractCalls)
	}
}

func TestSyncWeightInvalidWeightColumn(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "Paid/Printing", "ultimaker-01", "not-a-number"),
	}}
	ws := newTestService(board)

	_, err := ws.SyncWeight(context.Background(), "ultimaker-01", "0.5")
	if code := httpErrCode(t, err); code != errs.CodeInvalidNumericInput {
		t.Errorf("error code = %s, want %s", code, errs.CodeInvalidNumericInput)
	}
	if board.subtractCalls != 0 {
		t.Errorf("no adjustment may fire on a bad weight column, got %d", board.subtractCalls)
	}
}

func TestSyncWeightUpstreamErrorPassthrough(t *testing.T) {
	board := &fakeBoard{itemsErr: errs.NewUpstreamFetchError(errors.New("boom"))}
	ws := newTestService(board)

	_, err := ws.SyncWeight(context.Background(), "ultimaker-01", "0.5")
	if code := httpErrCode(t, err); code != errs.CodeUpstreamFetch {
		t.Errorf("error code = %s, want %s", code, errs.CodeUpstreamFetch)
	}
}

func TestSyncWeightAdjustmentFailure(t *testing.T) {
	board := &fakeBoard{
		items: []monday.Item{
			boardItem("1", "benchy", "Paid/Printing", "ultimaker-01", "120"),
		},
		subtractErr: errors.New("write refused"),
	}
	ws := newTestService(board)

	_, err := ws.SyncWeight(context.Background(), "ultimaker-01", "0.5")
	if code := httpErrCode(t, err); code != errs.CodeDownstreamAdjustment {
		t.Errorf("error code = %s, want %s", code, errs.CodeDownstreamAdjustment)
	}
	if board.subtractCalls != 1 {
		t.Errorf("expected single adjustment attempt, got %d", board.subtractCalls)
	}
}

func TestListPrinters(t *testing.T) {
	board := &fakeBoard{items: []monday.Item{
		boardItem("1", "benchy", "Paid/Printing", "ultimaker-01", "120"),
		boardItem("2", "vase", "Done", "ultimaker-02", "80"),
	}}
	ws := newTestService(board)

	statuses, err := ws.ListPrinters(context.Background())
	if err != nil {
		t.Fatalf("ListPrinters returned error: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(statuses))
	}
	if statuses[0].Printer != "ultimaker-01" || statuses[0].Status != "Paid/Printing" {
		t.Errorf("unexpected first row: %+v", statuses[0])
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0.5", 0.5, false},
		{" 42 ", 42, false},
		{"-3.25", -3.25, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"+Inf", 0, true},
		{"1e13", 0, true},
	}
	for _, tc := range cases {
		got, err := parseDecimal(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseDecimal(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDecimal(%q) returned error: %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("parseDecimal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/printforge/weightsync/internal/config"
	"github.com/printforge/weightsync/internal/handler"
	"github.com/printforge/weightsync/internal/middleware"
	"github.com/printforge/weightsync/internal/monday"
	"github.com/printforge/weightsync/internal/server"
	"github.com/printforge/weightsync/internal/service"
)

const boardFixture = `{
	"data": {
		"boards": [
			{
				"items": [
					{
						"id": "101",
						"name": "benchy",
						"column_values": [
							{"id": "status", "text": "Paid/Printing"},
							{"id": "text", "text": "ultimaker-01"},
							{"id": "numbers", "text": "120"},
							{"id": "numbers9", "text": "500"}
						]
					}
				]
			}
		]
	}
}`

// newTestApp assembles the full HTTP stack against a stub monday.com
// endpoint and returns the router plus a counter of outbound API
// calls.
func newTestApp(t *testing.T, mondayHandler http.HandlerFunc) (http.Handler, *int) {
	t.Helper()

	calls := 0
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		mondayHandler(w, r)
	}))
	t.Cleanup(stub.Close)

	log := zerolog.Nop()
	srv := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				Port:               "0",
				ReadTimeout:        5,
				WriteTimeout:       5,
				IdleTimeout:        5,
				CORSAllowedOrigins: []string{"*"},
			},
			Monday: config.MondayConfig{
				APIURL:            stub.URL,
				Token:             "test-token",
				BoardID:           "123",
				StatusColumnID:    "status",
				PrinterColumnID:   "text",
				WeightColumnID:    "numbers",
				RemainingColumnID: "numbers9",
				SyncStatus:        config.DefaultSyncStatus,
				RequestTimeout:    5 * time.Second,
			},
		},
		Logger: &log,
	}
	srv.Monday = monday.NewClient(srv.Config.Monday, nil, &log)

	services, err := service.NewService(srv)
	if err != nil {
		t.Fatalf("service setup failed: %v", err)
	}

	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv)

	return New(middlewares, handlers), &calls
}

func doRequest(t *testing.T, app http.Handler, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, body
}

func resultField(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var result string
	if err := json.Unmarshal(body["result"], &result); err != nil {
		t.Fatalf("missing result field: %v", err)
	}
	return result
}

func errorCode(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var errBody struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body["error"], &errBody); err != nil {
		t.Fatalf("missing error field: %v", err)
	}
	return errBody.Code
}

func TestSyncWeightEndToEnd(t *testing.T) {
	var calls *int
	app, calls := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if *calls == 1 {
			w.Write([]byte(boardFixture))
			return
		}
		w.Write([]byte(`{"data": {"change_simple_column_value": {"id": "101"}}}`))
	})

	rec, body := doRequest(t, app, "/printers/syncWeight?printer=ultimaker-01&prog=0.25")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := resultField(t, body); got != "success" {
		t.Errorf("result = %q, want success", got)
	}
	if *calls != 2 {
		t.Errorf("expected 2 outbound calls (query + mutation), got %d", *calls)
	}
}

func TestSyncWeightMissingParameters(t *testing.T) {
	targets := []string{
		"/printers/syncWeight",
		"/printers/syncWeight?printer=ultimaker-01",
		"/printers/syncWeight?prog=0.25",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			app, calls := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(boardFixture))
			})

			rec, body := doRequest(t, app, target)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if got := resultField(t, body); got != "error" {
				t.Errorf("result = %q, want error", got)
			}
			if got := errorCode(t, body); got != "MISSING_PARAMETER" {
				t.Errorf("error code = %q, want MISSING_PARAMETER", got)
			}
			if *calls != 0 {
				t.Errorf("no outbound call may fire on a rejected request, got %d", *calls)
			}
		})
	}
}

func TestSyncWeightBlankParameters(t *testing.T) {
	app, calls := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boardFixture))
	})

	rec, body := doRequest(t, app, "/printers/syncWeight?printer=%20%20&prog=0.25")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := resultField(t, body); got != "error" {
		t.Errorf("result = %q, want error", got)
	}
	// A present-but-blank value is not a missing parameter.
	if got := errorCode(t, body); got == "MISSING_PARAMETER" {
		t.Errorf("error code = %q, want a generic validation code", got)
	}
	if *calls != 0 {
		t.Errorf("no outbound call may fire on a rejected request, got %d", *calls)
	}
}

func TestSyncWeightUnknownPrinter(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boardFixture))
	})

	rec, body := doRequest(t, app, "/printers/syncWeight?printer=ultimaker-99&prog=0.25")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := errorCode(t, body); got != "NO_MATCHING_ITEM" {
		t.Errorf("error code = %q, want NO_MATCHING_ITEM", got)
	}
}

func TestSyncWeightUpstreamFailure(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec, body := doRequest(t, app, "/printers/syncWeight?printer=ultimaker-01&prog=0.25")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := resultField(t, body); got != "error" {
		t.Errorf("result = %q, want error", got)
	}
	if got := errorCode(t, body); got != "UPSTREAM_FETCH_FAILURE" {
		t.Errorf("error code = %q, want UPSTREAM_FETCH_FAILURE", got)
	}
}

func TestListPrintersEndToEnd(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boardFixture))
	})

	rec, body := doRequest(t, app, "/printers")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := resultField(t, body); got != "success" {
		t.Errorf("result = %q, want success", got)
	}

	var printers []service.PrinterStatus
	if err := json.Unmarshal(body["printers"], &printers); err != nil {
		t.Fatalf("missing printers field: %v", err)
	}
	if len(printers) != 1 || printers[0].Printer != "ultimaker-01" {
		t.Errorf("unexpected printers: %+v", printers)
	}
}

func TestUnknownRoute(t *testing.T) {
	app, calls := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(boardFixture))
	})

	rec, body := doRequest(t, app, "/nope")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := resultField(t, body); got != "error" {
		t.Errorf("result = %q, want error", got)
	}
	if *calls != 0 {
		t.Errorf("unexpected outbound calls: %d", *calls)
	}
}

func TestStatusEndpoint(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"complexity": {"before": 9999}}}`))
	})

	rec, body := doRequest(t, app, "/status")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var status string
	if err := json.Unmarshal(body["status"], &status); err != nil {
		t.Fatalf("missing status field: %v", err)
	}
	if status != "healthy" {
		t.Errorf("status = %q, want healthy", status)
	}
}

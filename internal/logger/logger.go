// Package logger configures the application's logging, monitoring, and
// observability.
//
// It uses zerolog for structured logging and integrates with New Relic
// to instrument the codebase, forwarding logs, metrics, and traces.
package logger

import (
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/printforge/weightsync/internal/config"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is not configured (empty license key), the service
// still exists but GetApplication returns nil and every consumer
// degrades to a no-op.
type LoggerService struct {
	nrApp *zerologApp
}

// zerologApp pairs the New Relic application with the writer that
// forwards zerolog output to it.
type zerologApp struct {
	app *newrelic.Application
}

// New builds the application logger and the LoggerService from config.
//
// Behavior:
//   - Level comes from ObservabilityConfig.GetLogLevel().
//   - "console" format writes human-readable output to stderr; any
//     other format, and any format in production, writes JSON to
//     stdout.
//   - When a New Relic license key is configured, the agent is started
//     and (if enabled) zerolog output is forwarded to it in context.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	level, err := zerolog.ParseLevel(cfg.Observability.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	service := &LoggerService{}

	var nrApp *newrelic.Application
	if cfg.Observability.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.Observability.ServiceName),
			newrelic.ConfigLicense(cfg.Observability.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(cfg.Observability.NewRelic.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(cfg.Observability.NewRelic.AppLogForwardingEnabled),
			func(c *newrelic.Config) {
				c.Labels = map[string]string{
					"environment": cfg.Observability.Environment,
				}
			},
		)
		if err != nil {
			return nil, nil, err
		}
		service.nrApp = &zerologApp{app: nrApp}
	}

	var log zerolog.Logger
	if logFormat(cfg.Observability) == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	} else if nrApp != nil && cfg.Observability.NewRelic.AppLogForwardingEnabled {
		// Wrap stdout so every log line carries New Relic linking
		// metadata and gets forwarded by the agent.
		writer := zerologWriter.New(os.Stdout, nrApp)
		log = zerolog.New(writer).With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	log = log.With().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()

	return &log, service, nil
}

// logFormat resolves the effective log output format. Console output
// is a development convenience; in production the format is forced to
// JSON so log aggregation keeps working regardless of configuration.
func logFormat(cfg *config.ObservabilityConfig) string {
	if cfg.IsProduction() {
		return "json"
	}
	return cfg.Logging.Format
}

// GetApplication returns the New Relic application, or nil when New
// Relic is not configured.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil || s.nrApp == nil {
		return nil
	}
	return s.nrApp.app
}

// Shutdown flushes pending telemetry. Safe to call when New Relic is
// not configured.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if app := s.GetApplication(); app != nil {
		app.Shutdown(timeout)
	}
}

// WithTraceContext returns a copy of the logger enriched with trace.id
// and span.id fields from the given transaction, so log lines correlate
// with distributed traces.
func WithTraceContext(log zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return log
	}

	metadata := txn.GetTraceMetadata()
	builder := log.With()
	if metadata.TraceID != "" {
		builder = builder.Str("trace.id", metadata.TraceID)
	}
	if metadata.SpanID != "" {
		builder = builder.Str("span.id", metadata.SpanID)
	}
	return builder.Logger()
}

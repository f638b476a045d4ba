// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so the service fails fast
// on bad or missing configuration.
//
// The monday.com credential, API URL, and board/column identifiers all
// live here; none of them are embedded as literals anywhere else.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file (if present) into the
	// process environment before anything reads env vars.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// Env vars use the WEIGHTSYNC_ prefix and "." nesting, e.g.
// WEIGHTSYNC_MONDAY.TOKEN -> monday.token -> Config.Monday.Token.
//
// Observability is a pointer because it is optional; defaults are
// injected at load time when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Monday        MondayConfig         `koanf:"monday" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeout values are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the per-client-IP request budget in requests per
	// second. Zero disables inbound rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
}

// MondayConfig contains everything needed to talk to the monday.com
// GraphQL API: endpoint, credential, the board holding the print farm's
// job rows, and the column identifiers consumed by the sync.
//
// Columns are addressed by ID rather than position so a reordering of
// the board does not silently break matching.
type MondayConfig struct {
	// APIURL is the GraphQL endpoint, e.g. "https://api.monday.com/v2".
	APIURL string `koanf:"api_url" validate:"required,url"`

	// Token is the bearer credential for the monday.com API.
	Token string `koanf:"token" validate:"required"`

	// BoardID identifies the board whose items are scanned.
	BoardID string `koanf:"board_id" validate:"required"`

	// StatusColumnID is the column holding the job status label.
	StatusColumnID string `koanf:"status_column_id" validate:"required"`

	// PrinterColumnID is the column holding the printer identifier.
	PrinterColumnID string `koanf:"printer_column_id" validate:"required"`

	// WeightColumnID is the column holding the job's weight per unit
	// of progress (grams for a full print).
	WeightColumnID string `koanf:"weight_column_id" validate:"required"`

	// RemainingColumnID is the column holding the running filament
	// total that adjustments decrement.
	RemainingColumnID string `koanf:"remaining_column_id" validate:"required"`

	// SyncStatus is the status label a row must carry to be considered
	// an active job. Deliberately configurable: the historical value
	// here is "Paid/Printing" and boards have been observed to store a
	// differently-cased variant, so matching is case-insensitive and
	// the expected label stays visible in configuration.
	SyncStatus string `koanf:"sync_status"`

	// RequestTimeout bounds each outbound API call. Zero falls back to
	// DefaultRequestTimeout; an upstream hang must never block a
	// request indefinitely.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`

	// BoardCacheTTL is how long a board query result may be served
	// from cache. Zero disables caching entirely.
	BoardCacheTTL time.Duration `koanf:"board_cache_ttl"`
}

const (
	// DefaultSyncStatus is the status label of rows eligible for
	// weight sync when none is configured.
	DefaultSyncStatus = "Paid/Printing"

	// DefaultRequestTimeout bounds outbound monday.com calls when no
	// timeout is configured.
	DefaultRequestTimeout = 15 * time.Second
)

// loadConfig loads configuration from environment variables, unmarshals
// it into Config, validates it, applies defaults, and returns the
// resulting config.
//
// It logs fatally on any load or validation error; a service with a
// broken config should not come up at all.
func loadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider("WEIGHTSYNC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "WEIGHTSYNC_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if mainConfig.Monday.SyncStatus == "" {
		mainConfig.Monday.SyncStatus = DefaultSyncStatus
	}
	if mainConfig.Monday.RequestTimeout <= 0 {
		mainConfig.Monday.RequestTimeout = DefaultRequestTimeout
	}

	// Set default observability config if not provided.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Force service name and environment so tracing/logging sees
	// consistent naming regardless of what was configured.
	mainConfig.Observability.ServiceName = "weightsync"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// Load returns the application configuration loaded from the
// environment.
func Load() (*Config, error) {
	return loadConfig()
}

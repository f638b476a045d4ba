// Package server defines the core Server struct that composes the
// app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - redis client (board query cache)
//   - monday.com API client
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the
// application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/printforge/weightsync/internal/config"
	loggerPkg "github.com/printforge/weightsync/internal/logger"
	"github.com/printforge/weightsync/internal/monday"
)

// Server is the application container that holds shared resources.
// It is not the HTTP server itself; it holds one internally.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application
	// instance. Nil application means New Relic is disabled.
	LoggerService *loggerPkg.LoggerService

	// Monday is the client for the job board API.
	Monday *monday.Client

	// Redis backs the board query cache. May be unreachable; the
	// service keeps working without it.
	Redis *redis.Client

	// httpServer is configured in SetupHTTPServer and started in Start.
	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// A Redis connection failure does not block startup: the board cache
// degrades to a no-op and every read hits the monday API directly.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	// Instrument Redis commands when New Relic is enabled so cache
	// operations show up in distributed traces.
	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without board cache")
	}

	cache := monday.NewBoardCache(redisClient, cfg.Redis.BoardCacheTTL, logger)
	mondayClient := monday.NewClient(cfg.Monday, cache, logger)

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Monday:        mondayClient,
		Redis:         redisClient,
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server. The router
// (Echo) is passed in as handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Timeouts protect against slow clients and resource
		// exhaustion. Config stores whole seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It requires SetupHTTPServer to be called
// first and blocks until the server stops or errors.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies:
// inflight requests finish until the context deadline, then the Redis
// client is closed.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if err := s.Redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown(5 * time.Second)
	}

	return nil
}

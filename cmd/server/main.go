package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printforge/weightsync/internal/config"
	"github.com/printforge/weightsync/internal/handler"
	"github.com/printforge/weightsync/internal/logger"
	"github.com/printforge/weightsync/internal/middleware"
	"github.com/printforge/weightsync/internal/router"
	"github.com/printforge/weightsync/internal/server"
	"github.com/printforge/weightsync/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger, loggerService, err := logger.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	srv, err := server.New(cfg, appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	services, err := service.NewService(srv)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize services")
	}

	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv)

	r := router.New(middlewares, handlers)
	srv.SetupHTTPServer(r)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	appLogger.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	appLogger.Info().Msg("server stopped")
}

package handler

// HealthHandler exposes a "system" endpoint that external systems can
// use to verify the service is alive and its dependencies reachable.
// It reports sub-checks for the monday.com API and Redis.
import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/printforge/weightsync/internal/middleware"
	"github.com/printforge/weightsync/internal/server"
)

// HealthHandler embeds the base Handler to reuse shared server
// dependencies.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns overall health plus per-dependency checks.
//
// It returns:
//   - 200 OK when the monday.com API is reachable
//   - 503 Service Unavailable otherwise
//
// Redis is reported but does not fail the check: the board cache is
// best-effort and the service works without it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	// monday.com API reachability.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mondayStart := time.Now()

	if err := h.server.Monday.Ping(ctx); err != nil {
		checks["monday"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(mondayStart).String(),
			"error":         err.Error(),
		}

		isHealthy = false

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(mondayStart)).
			Msg("monday health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":       "monday",
					"operation":        "health_check",
					"error_type":       "monday_unhealthy",
					"response_time_ms": time.Since(mondayStart).Milliseconds(),
					"error_message":    err.Error(),
				},
			)
		}
	} else {
		checks["monday"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(mondayStart).String(),
		}

		logger.Info().
			Dur("response_time", time.Since(mondayStart)).
			Msg("monday health check passed")
	}

	// Redis connectivity. Degraded cache is reported, never fatal.
	if h.server.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisStart := time.Now()

		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check failed")
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}

			logger.Info().
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

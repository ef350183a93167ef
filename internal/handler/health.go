package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/users-api/internal/middleware"
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/server"
)

// HealthHandler exposes a "system" endpoint that load balancers and uptime
// monitors use to verify the service is alive and its store is reachable.
type HealthHandler struct {
	Handler
	store repository.Store
}

func NewHealthHandler(s *server.Server, store repository.Store) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		store:   store,
	}
}

// CheckHealth returns system health status and the store check.
//
// It returns:
//   - 200 OK if the store answers (or checks are disabled)
//   - 503 Service Unavailable otherwise
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	healthCfg := h.server.Config.Observability.HealthChecks
	pinger, canPing := h.store.(repository.Pinger)
	if healthCfg.Enabled && canPing {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCfg.Timeout)
		defer cancel()

		storeStart := time.Now()
		checkName := "store." + h.server.Config.Store.Driver

		if err := pinger.Ping(ctx); err != nil {
			checks[checkName] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(storeStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(storeStart)).
				Msg("store health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent(
					"HealthCheckError",
					map[string]interface{}{
						"check_type":       checkName,
						"operation":        "health_check",
						"error_type":       "store_unhealthy",
						"response_time_ms": time.Since(storeStart).Milliseconds(),
						"error_message":    err.Error(),
					},
				)
			}
		} else {
			checks[checkName] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(storeStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(storeStart)).
				Msg("store health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/observability"
)

// Observability attaches Prometheus metrics and structured latency/error
// logging to every proxied request.
func Observability(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		statusLabel := fmt.Sprintf("%d", status)
		observability.ProxyRequests().WithLabelValues(statusLabel).Inc()

		requestLogger := logger.With().
			Str("correlation_id", GetCorrelationID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Logger()

		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg("proxy request failed")
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg("proxy request completed with client error")
		default:
			requestLogger.Info().Msg("proxy request completed")
		}

		return err
	}
}

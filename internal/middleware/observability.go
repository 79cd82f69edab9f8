package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/observability"
)

const (
	apiPathPrefix   = "/api/v1"
	adminPathPrefix = "/api/v1/admin"
)

// Observability records Prometheus metrics and a structured access log line for
// every API request. Admin traffic is logged at info, the rest at debug.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		path := c.Path()
		if !strings.HasPrefix(path, apiPathPrefix) {
			return err
		}

		scope := "api"
		if strings.HasPrefix(path, adminPathPrefix) {
			scope = "admin"
		}
		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := strconv.Itoa(status)

		observability.HTTPRequests().WithLabelValues(scope, method, route, statusLabel).Inc()
		observability.HTTPLatency().WithLabelValues(scope, method, route).Observe(duration.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.HTTPErrors().WithLabelValues(scope, method, route, statusLabel).Inc()
		}

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error()
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
		case scope == "admin":
			event = logger.Info()
		default:
			event = logger.Debug()
		}

		event.
			Str("correlation_id", GetCorrelationID(c)).
			Str("scope", scope).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Str("latency_bucket", latencyBucket(duration)).
			Msg("request completed")

		return err
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return c.Path()
}

func latencyBucket(duration time.Duration) string {
	for _, limit := range []time.Duration{25, 50, 100, 250, 500} {
		if duration <= limit*time.Millisecond {
			return "<=" + strconv.Itoa(int(limit)) + "ms"
		}
	}
	return ">500ms"
}

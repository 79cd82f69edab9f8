package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/quiz-grading-api/internal/config"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// HealthCheckFunc probes one backing dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthCheck reports service metadata and the state of each registered
// dependency. Any failing dependency turns the response into a 503.
func HealthCheck(cfg config.Config, checks map[string]HealthCheckFunc) fiber.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(names) > 0 {
			ctx, cancel := context.WithTimeout(requestContext(c), 2*time.Second)
			defer cancel()

			payload.Dependencies = make(map[string]string, len(names))
			for _, name := range names {
				if err := checks[name](ctx); err != nil {
					payload.Dependencies[name] = "down"
					payload.Status = "degraded"
					continue
				}
				payload.Dependencies[name] = "up"
			}
		}

		if payload.Status != "ok" {
			return utils.SendSuccessWithStatus(c, fiber.StatusServiceUnavailable, "service degraded", payload)
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/noah-isme/quiz-grading-api/internal/observability"
)

// CorrelationHeader carries the request identifier in and out of the API.
const CorrelationHeader = "X-Correlation-ID"

// CorrelationID tags every request with an identifier. An incoming
// X-Correlation-ID or X-Request-ID is reused, otherwise a UUID is generated.
// The identifier is echoed back and bound to the user context so services can
// stamp it on published events.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(CorrelationHeader))
		if id == "" {
			id = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set(CorrelationHeader, id)
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), id))

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	return observability.CorrelationID(c.UserContext())
}

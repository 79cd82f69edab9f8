package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// RateLimit creates a per-user rate limiter middleware instance. Anonymous
// callers are keyed by IP. A nil storage keeps counters in process memory.
func RateLimit(identifier string, max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			key := c.IP()
			if userID, ok := c.Locals("user_id").(uint); ok && userID != 0 {
				key = fmt.Sprintf("user:%d", userID)
			}
			return fmt.Sprintf("%s:%s", identifier, key)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, "too many requests", fiber.Map{
				"limit":          max,
				"window_seconds": int(window.Seconds()),
			})
		},
	})
}

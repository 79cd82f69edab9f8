package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/quiz-grading-api/internal/config"
	"github.com/noah-isme/quiz-grading-api/internal/handler"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler          *handler.AuthHandler
	CategoryHandler      *handler.CategoryHandler
	QuizHandler          *handler.QuizHandler
	QuestionHandler      *handler.QuestionHandler
	SubmissionHandler    *handler.SubmissionHandler
	AdminReportHandler   *handler.AdminReportHandler
	AdminActivityHandler *handler.AdminActivityHandler
	HealthChecks         map[string]handler.HealthCheckFunc
	JWTMiddleware        fiber.Handler
	// LimiterStorage backs the answer rate limiter; nil keeps counters in memory.
	LimiterStorage fiber.Storage
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), jwtMiddleware)
	}

	// Catalog
	if deps.CategoryHandler != nil {
		deps.CategoryHandler.Register(api.Group("/categories", jwtMiddleware))
	}
	if deps.QuizHandler != nil {
		deps.QuizHandler.Register(api.Group("/quizzes", jwtMiddleware))
	}
	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions", jwtMiddleware))
	}

	// Submissions
	if deps.SubmissionHandler != nil {
		limiter := middleware.RateLimit("answers", cfg.AnswersPerMinute, time.Minute, deps.LimiterStorage)
		deps.SubmissionHandler.Register(api.Group("/submissions", jwtMiddleware), limiter)
	}

	// Admin reports
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(middleware.AuthRoleAdmin))
	if deps.AdminReportHandler != nil {
		deps.AdminReportHandler.Register(admin)
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin)
	}
}

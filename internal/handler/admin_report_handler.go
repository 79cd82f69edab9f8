package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// AdminReportHandler exposes submission reports to administrators.
type AdminReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewAdminReportHandler constructs the handler.
func NewAdminReportHandler(service service.ReportService, logger zerolog.Logger) *AdminReportHandler {
	return &AdminReportHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_report_handler").Logger(),
	}
}

// Register attaches report routes to the admin group.
func (h *AdminReportHandler) Register(router fiber.Router) {
	admin := middleware.AuthOptions{Role: middleware.AuthRoleAdmin}
	router.Get("/submissions", middleware.WithAuth(h.allSubmissions, admin))
	router.Get("/quizzes/:quizId/submissions", middleware.WithAuth(h.quizSubmissions, admin))
}

func (h *AdminReportHandler) allSubmissions(c *fiber.Ctx) error {
	report, err := h.service.GetAllSubmissions(requestContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "failed to load submissions report")
	}

	if report.CacheHit {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return utils.SendSuccess(c, "submissions report", report)
}

func (h *AdminReportHandler) quizSubmissions(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	submissions, err := h.service.GetQuizSubmissions(requestContext(c), quizID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load quiz submissions")
	}

	return utils.SendSuccess(c, "quiz submissions retrieved", submissions)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

// SubmissionHandler serves a user's own submissions.
type SubmissionHandler struct {
	submissions service.SubmissionService
	reports     service.ReportService
	logger      zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(submissions service.SubmissionService, reports service.ReportService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		reports:     reports,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. answerLimiter
// guards the answer endpoint and may be nil.
func (h *SubmissionHandler) Register(router fiber.Router, answerLimiter fiber.Handler) {
	user := middleware.AuthOptions{Role: middleware.AuthRoleUser}

	answerHandlers := []fiber.Handler{}
	if answerLimiter != nil {
		answerHandlers = append(answerHandlers, answerLimiter)
	}
	answerHandlers = append(answerHandlers, middleware.WithAuth(h.submitAnswer, user))

	router.Post("/answers", answerHandlers...)
	router.Get("/overview", middleware.WithAuth(h.overview, user))
	router.Get("/quizzes/:quizId", middleware.WithAuth(h.getForQuiz, user))
}

func (h *SubmissionHandler) submitAnswer(c *fiber.Ctx) error {
	var payload dto.AnswerSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.submissions.SubmitAnswer(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to record answer")
	}

	return utils.SendSuccess(c, "answer recorded", submission)
}

func (h *SubmissionHandler) getForQuiz(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	submission, err := h.reports.GetUserSubmission(requestContext(c), userIDFromContext(c), quizID)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load submission")
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) overview(c *fiber.Ctx) error {
	overview, err := h.reports.GetUserQuizOverview(requestContext(c), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "failed to load quiz overview")
	}

	return utils.SendSuccess(c, "quiz overview retrieved", overview)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/service"
	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrQuizNotFound, fiber.StatusNotFound},
	{service.ErrCategoryNotFound, fiber.StatusNotFound},
	{service.ErrQuestionNotFound, fiber.StatusNotFound},
	{service.ErrOptionNotFound, fiber.StatusNotFound},
	{service.ErrSubmissionNotFound, fiber.StatusNotFound},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrCategoryExists, fiber.StatusConflict},
	{service.ErrUsernameTaken, fiber.StatusConflict},
	{service.ErrQuizFull, fiber.StatusUnprocessableEntity},
	{service.ErrInvalidOptions, fiber.StatusUnprocessableEntity},
	{service.ErrQuestionTextRequired, fiber.StatusUnprocessableEntity},
	{service.ErrQuizTitleRequired, fiber.StatusUnprocessableEntity},
	{service.ErrCategoryNameRequired, fiber.StatusUnprocessableEntity},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrPromotionDisabled, fiber.StatusForbidden},
}

// handleError translates service errors into HTTP responses. Unknown errors
// are logged and reported as a generic failure.
func handleError(c *fiber.Ctx, logger zerolog.Logger, err error, failure string) error {
	for _, mapping := range errorStatuses {
		if errors.Is(err, mapping.target) {
			return utils.SendError(c, mapping.status, mapping.target.Error())
		}
	}

	if isValidationError(err) {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	}

	requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg(failure)
	return utils.SendError(c, fiber.StatusInternalServerError, failure)
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/observability"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

// SubmissionService records answers into the submission ledger.
type SubmissionService interface {
	SubmitAnswer(ctx context.Context, userID uint, payload dto.AnswerSubmitRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	answers     AnswerValidator
	validator   *validator.Validate
	events      SubmissionPublisher
	logger      zerolog.Logger
}

// NewSubmissionService wires the ledger. events may be nil.
func NewSubmissionService(submissions repository.SubmissionRepository, answers AnswerValidator, validate *validator.Validate, events SubmissionPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		answers:     answers,
		validator:   validate,
		events:      events,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) SubmitAnswer(ctx context.Context, userID uint, payload dto.AnswerSubmitRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/quiz-grading-api/internal/service/submission")
	ctx, span := tracer.Start(ctx, "submission.answer")
	span.SetAttributes(
		attribute.Int64("submission.user_id", int64(userID)),
		attribute.Int64("submission.question_id", int64(payload.QuestionID)),
		attribute.Int64("submission.option_id", int64(payload.OptionID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	question, option, err := s.answers.Validate(ctx, payload.QuestionID, payload.OptionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	record, err := s.submissions.RecordAnswer(ctx, userID, question, option)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger_write_failed")
		s.logger.Error().Err(err).Uint("user_id", userID).Uint("question_id", question.ID).Msg("failed to record answer")
		return dto.SubmissionResponse{}, err
	}

	submission := record.Submission
	if err := submission.CheckInvariants(record.TotalQuestions); err != nil {
		s.logger.Error().
			Err(err).
			Uint("submission_id", submission.ID).
			Int("attempted", submission.AttemptedCount).
			Int("correct", submission.CorrectCount).
			Int64("total", record.TotalQuestions).
			Msg("submission counters out of range")
	}

	kind := "revision"
	if record.FirstAnswer {
		kind = "first"
	}
	result := "incorrect"
	if option.IsCorrect {
		result = "correct"
	}
	observability.AnswersRecorded().WithLabelValues(kind, result).Inc()
	if record.FirstAnswer && submission.IsCompleted {
		observability.SubmissionsCompleted().Inc()
	}

	if s.events != nil {
		s.events.PublishAnswered(ctx, record, question.ID, option.IsCorrect)
	}

	span.SetAttributes(
		attribute.Int64("submission.id", int64(submission.ID)),
		attribute.Bool("submission.first_answer", record.FirstAnswer),
		attribute.Bool("submission.completed", submission.IsCompleted),
	)
	s.logger.Debug().
		Uint("submission_id", submission.ID).
		Str("kind", kind).
		Int("attempted", submission.AttemptedCount).
		Int("correct", submission.CorrectCount).
		Msg("answer recorded")

	return dto.NewSubmissionResponse(submission, record.TotalQuestions), nil
}

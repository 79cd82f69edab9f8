package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

// DefaultMaxQuestionsPerQuiz caps the number of questions a quiz may hold.
const DefaultMaxQuestionsPerQuiz = 4

var (
	// ErrQuizFull indicates the quiz already holds the maximum number of questions.
	ErrQuizFull = errors.New("quiz already has the maximum number of questions")
	// ErrInvalidOptions indicates the options do not contain exactly one correct answer.
	ErrInvalidOptions = errors.New("exactly one option must be correct")
	// ErrQuestionTextRequired indicates question or option text was empty after sanitising.
	ErrQuestionTextRequired = errors.New("question and option text are required")
)

// QuestionService creates questions with their answer options.
type QuestionService interface {
	Create(ctx context.Context, actor ActivityActor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
}

type questionService struct {
	quizzes      repository.QuizRepository
	validator    *validator.Validate
	activity     ActivityRecorder
	sanitizer    *bluemonday.Policy
	maxQuestions int
	logger       zerolog.Logger
}

// NewQuestionService constructs a QuestionService. A maxQuestions of 0 lifts the
// limit; a negative one falls back to DefaultMaxQuestionsPerQuiz.
func NewQuestionService(quizzes repository.QuizRepository, validate *validator.Validate, activity ActivityRecorder, maxQuestions int, logger zerolog.Logger) QuestionService {
	if maxQuestions < 0 {
		maxQuestions = DefaultMaxQuestionsPerQuiz
	}
	return &questionService{
		quizzes:      quizzes,
		validator:    validate,
		activity:     activity,
		sanitizer:    bluemonday.StrictPolicy(),
		maxQuestions: maxQuestions,
		logger:       logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) Create(ctx context.Context, actor ActivityActor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if _, err := s.quizzes.GetActiveByID(ctx, payload.QuizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuizNotFound
		}
		return dto.QuestionResponse{}, err
	}

	correct := 0
	options := make([]models.Option, 0, len(payload.Options))
	for _, item := range payload.Options {
		text := cleanText(s.sanitizer, item.Text)
		if text == "" {
			return dto.QuestionResponse{}, ErrQuestionTextRequired
		}
		if item.IsCorrect {
			correct++
		}
		options = append(options, models.Option{Text: text, IsCorrect: item.IsCorrect})
	}
	if correct != 1 {
		return dto.QuestionResponse{}, ErrInvalidOptions
	}

	text := cleanText(s.sanitizer, payload.Text)
	if text == "" {
		return dto.QuestionResponse{}, ErrQuestionTextRequired
	}

	question := models.Question{QuizID: payload.QuizID, Text: text, Options: options}
	if err := s.quizzes.CreateQuestion(ctx, &question, s.maxQuestions); err != nil {
		switch {
		case errors.Is(err, repository.ErrQuestionLimitReached):
			return dto.QuestionResponse{}, ErrQuizFull
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.QuestionResponse{}, ErrQuizNotFound
		default:
			return dto.QuestionResponse{}, err
		}
	}

	s.logger.Info().Uint("question_id", question.ID).Uint("quiz_id", question.QuizID).Msg("question created")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     models.ActivityQuestionCreated,
		EntityType: "question",
		EntityID:   uintPtr(question.ID),
		Metadata:   map[string]interface{}{"quiz_id": question.QuizID, "options": len(question.Options)},
	})

	return dto.NewQuestionResponse(question, true), nil
}

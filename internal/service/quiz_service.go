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

var (
	// ErrQuizNotFound indicates the quiz does not exist or is not visible.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizTitleRequired indicates the title was empty after sanitising.
	ErrQuizTitleRequired = errors.New("quiz title is required")
)

// QuizService manages quizzes.
type QuizService interface {
	List(ctx context.Context) ([]dto.QuizResponse, error)
	Get(ctx context.Context, id uint, revealAnswers bool) (dto.QuizResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	SetActive(ctx context.Context, actor ActivityActor, id uint, active bool) (dto.QuizResponse, error)
}

type quizService struct {
	quizzes    repository.QuizRepository
	categories repository.CategoryRepository
	validator  *validator.Validate
	activity   ActivityRecorder
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizzes repository.QuizRepository, categories repository.CategoryRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:    quizzes,
		categories: categories,
		validator:  validate,
		activity:   activity,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "quiz_service").Logger(),
	}
}

// List returns active quizzes with their full content for administrators.
func (s *quizService) List(ctx context.Context) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewQuizResponseSlice(quizzes, true), nil
}

func (s *quizService) Get(ctx context.Context, id uint, revealAnswers bool) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}
	return dto.NewQuizResponse(quiz, revealAnswers), nil
}

func (s *quizService) Create(ctx context.Context, actor ActivityActor, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	title := cleanText(s.sanitizer, payload.Title)
	if title == "" {
		return dto.QuizResponse{}, ErrQuizTitleRequired
	}

	if _, err := s.categories.GetByID(ctx, payload.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrCategoryNotFound
		}
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		Title:       title,
		Description: cleanText(s.sanitizer, payload.Description),
		CategoryID:  payload.CategoryID,
		CreatedByID: actor.ID,
		IsActive:    true,
	}
	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	created, err := s.quizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", created.ID).Uint("category_id", created.CategoryID).Msg("quiz created")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     models.ActivityQuizCreated,
		EntityType: "quiz",
		EntityID:   uintPtr(created.ID),
		Metadata:   map[string]interface{}{"title": created.Title, "category_id": created.CategoryID},
	})

	return dto.NewQuizResponse(created, true), nil
}

func (s *quizService) SetActive(ctx context.Context, actor ActivityActor, id uint, active bool) (dto.QuizResponse, error) {
	if err := s.quizzes.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	action := models.ActivityQuizDeactivated
	if active {
		action = models.ActivityQuizActivated
	}
	s.logger.Info().Uint("quiz_id", id).Bool("is_active", active).Msg("quiz status changed")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "quiz",
		EntityID:   uintPtr(id),
	})

	return dto.NewQuizResponse(quiz, true), nil
}

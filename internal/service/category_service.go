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
	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists indicates the category name is already taken.
	ErrCategoryExists = errors.New("category with this name already exists")
	// ErrCategoryNameRequired indicates the name was empty after sanitising.
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService manages quiz categories.
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.CategoryCreateRequest) (dto.CategoryResponse, error)
}

type categoryService struct {
	repo      repository.CategoryRepository
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCategoryService constructs a CategoryService instance.
func NewCategoryService(repo repository.CategoryRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CategoryService {
	return &categoryService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "category_service").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryResponseSlice(categories), nil
}

func (s *categoryService) Create(ctx context.Context, actor ActivityActor, payload dto.CategoryCreateRequest) (dto.CategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	name := cleanText(s.sanitizer, payload.Name)
	if name == "" {
		return dto.CategoryResponse{}, ErrCategoryNameRequired
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return dto.CategoryResponse{}, ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoryResponse{}, err
	}

	category := models.Category{
		Name:        name,
		Description: cleanText(s.sanitizer, payload.Description),
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CategoryResponse{}, ErrCategoryExists
		}
		return dto.CategoryResponse{}, err
	}

	s.logger.Info().Uint("category_id", category.ID).Msg("category created")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     models.ActivityCategoryCreated,
		EntityType: "category",
		EntityID:   uintPtr(category.ID),
		Metadata:   map[string]interface{}{"name": category.Name},
	})

	return dto.NewCategoryResponse(category), nil
}

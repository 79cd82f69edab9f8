package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (models.Category, error)
	GetByName(ctx context.Context, name string) (models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository instantiates a GORM-backed category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

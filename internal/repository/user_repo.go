package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	UpdateRole(ctx context.Context, id uint, role string) (models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role string) (models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return models.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

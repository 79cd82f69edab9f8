package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

// ErrQuestionLimitReached is returned when a quiz already holds the maximum number of questions.
var ErrQuestionLimitReached = errors.New("question limit reached")

// QuizRepository defines persistence operations for quizzes, questions and options.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	ListActive(ctx context.Context) ([]models.Quiz, error)
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	Exists(ctx context.Context, id uint) (bool, error)
	GetActiveByID(ctx context.Context, id uint) (models.Quiz, error)
	SetActive(ctx context.Context, id uint, active bool) error
	CreateQuestion(ctx context.Context, question *models.Question, limit int) error
	GetQuestion(ctx context.Context, id uint) (models.Question, error)
	GetOption(ctx context.Context, id uint) (models.Option, error)
	CountQuestions(ctx context.Context, quizID uint) (int64, error)
	CountQuestionsByQuiz(ctx context.Context, quizIDs []uint) (map[uint]int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates a GORM-backed quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) withContent(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quiz).Error
}

func (r *quizRepository) ListActive(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.withContent(ctx).Where("is_active = ?", true).Order("id ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.withContent(ctx).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

// Exists reports whether a quiz with id is stored, regardless of its active flag.
func (r *quizRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *quizRepository) GetActiveByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.withContent(ctx).Where("is_active = ?", true).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (r *quizRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateQuestion stores the question and its options atomically, refusing the
// write once the quiz holds limit questions. A non-positive limit disables the check.
func (r *quizRepository) CreateQuestion(ctx context.Context, question *models.Question, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&quiz, question.QuizID).Error; err != nil {
			return err
		}

		if limit > 0 {
			var count int64
			if err := tx.Model(&models.Question{}).Where("quiz_id = ?", question.QuizID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(limit) {
				return ErrQuestionLimitReached
			}
		}

		options := question.Options
		question.Options = nil
		if err := tx.Omit(clause.Associations).Create(question).Error; err != nil {
			return err
		}

		for i := range options {
			options[i].QuestionID = question.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		question.Options = options

		return nil
	})
}

func (r *quizRepository) GetQuestion(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}
	return question, nil
}

func (r *quizRepository) GetOption(ctx context.Context, id uint) (models.Option, error) {
	var option models.Option
	if err := r.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return models.Option{}, err
	}
	return option, nil
}

func (r *quizRepository) CountQuestions(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *quizRepository) CountQuestionsByQuiz(ctx context.Context, quizIDs []uint) (map[uint]int64, error) {
	totals := make(map[uint]int64, len(quizIDs))
	if len(quizIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		QuizID uint
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("quiz_id, COUNT(*) AS total").
		Where("quiz_id IN ?", quizIDs).
		Group("quiz_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		totals[row.QuizID] = row.Total
	}
	return totals, nil
}

package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

var (
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates the option does not exist or belongs to another question.
	ErrOptionNotFound = errors.New("option not found for this question")
)

// AnswerValidator confirms that an option belongs to a question.
type AnswerValidator interface {
	Validate(ctx context.Context, questionID, optionID uint) (models.Question, models.Option, error)
}

type answerValidator struct {
	quizzes repository.QuizRepository
}

// NewAnswerValidator builds a validator backed by the catalog store.
func NewAnswerValidator(quizzes repository.QuizRepository) AnswerValidator {
	return &answerValidator{quizzes: quizzes}
}

func (v *answerValidator) Validate(ctx context.Context, questionID, optionID uint) (models.Question, models.Option, error) {
	question, err := v.quizzes.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Question{}, models.Option{}, ErrQuestionNotFound
		}
		return models.Question{}, models.Option{}, err
	}

	option, err := v.quizzes.GetOption(ctx, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Question{}, models.Option{}, ErrOptionNotFound
		}
		return models.Question{}, models.Option{}, err
	}

	if !option.BelongsTo(question.ID) {
		return models.Question{}, models.Option{}, ErrOptionNotFound
	}

	return question, option, nil
}

package dto

import (
	"time"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

// CategoryCreateRequest is the payload for creating a category.
type CategoryCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// CategoryResponse serializes a category.
type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuizCreateRequest is the payload for creating a quiz.
type QuizCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	CategoryID  uint   `json:"category_id" validate:"required,gt=0"`
}

// QuizStatusRequest toggles quiz visibility.
type QuizStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// OptionCreateRequest describes one option of a new question.
type OptionCreateRequest struct {
	Text      string `json:"text" validate:"required,min=1,max=200"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionCreateRequest is the payload for creating a question with its options.
type QuestionCreateRequest struct {
	QuizID  uint                  `json:"quiz_id" validate:"required,gt=0"`
	Text    string                `json:"text" validate:"required,min=1"`
	Options []OptionCreateRequest `json:"options" validate:"required,min=2,dive"`
}

// OptionResponse serializes an option. IsCorrect is omitted for non-admin readers.
type OptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// QuestionResponse serializes a question with its options.
type QuestionResponse struct {
	ID        uint             `json:"id"`
	Text      string           `json:"text"`
	Options   []OptionResponse `json:"options"`
	CreatedAt time.Time        `json:"created_at"`
}

// QuizResponse serializes a quiz with its category and questions.
type QuizResponse struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	IsActive       bool               `json:"is_active"`
	Category       CategoryResponse   `json:"category"`
	Questions      []QuestionResponse `json:"questions"`
	QuestionsCount int                `json:"questions_count"`
	CreatedAt      time.Time          `json:"created_at"`
}

// NewCategoryResponse converts a category model into a DTO.
func NewCategoryResponse(model models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}

// NewCategoryResponseSlice converts category models into DTOs.
func NewCategoryResponseSlice(items []models.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewCategoryResponse(item))
	}
	return responses
}

// NewQuestionResponse converts a question model. When revealAnswers is false the
// correctness flags are withheld.
func NewQuestionResponse(model models.Question, revealAnswers bool) QuestionResponse {
	options := make([]OptionResponse, 0, len(model.Options))
	for _, option := range model.Options {
		item := OptionResponse{ID: option.ID, Text: option.Text}
		if revealAnswers {
			correct := option.IsCorrect
			item.IsCorrect = &correct
		}
		options = append(options, item)
	}

	return QuestionResponse{
		ID:        model.ID,
		Text:      model.Text,
		Options:   options,
		CreatedAt: model.CreatedAt,
	}
}

// NewQuizResponse converts a quiz model into a DTO.
func NewQuizResponse(model models.Quiz, revealAnswers bool) QuizResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, NewQuestionResponse(question, revealAnswers))
	}

	response := QuizResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		IsActive:       model.IsActive,
		Questions:      questions,
		QuestionsCount: len(questions),
		CreatedAt:      model.CreatedAt,
	}
	if model.Category.ID != 0 {
		response.Category = NewCategoryResponse(model.Category)
	}

	return response
}

// NewQuizResponseSlice converts quiz models into DTOs.
func NewQuizResponseSlice(items []models.Quiz, revealAnswers bool) []QuizResponse {
	responses := make([]QuizResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewQuizResponse(item, revealAnswers))
	}
	return responses
}

package dto

import (
	"time"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

// AnswerSubmitRequest carries a user's choice for a single question.
type AnswerSubmitRequest struct {
	QuestionID uint `json:"question_id" validate:"required,gt=0"`
	OptionID   uint `json:"option_id" validate:"required,gt=0"`
}

// SubmissionAnswerResponse describes the recorded answer to one question.
type SubmissionAnswerResponse struct {
	QuestionID         uint      `json:"question_id"`
	QuestionText       string    `json:"question_text"`
	SelectedOptionID   uint      `json:"selected_option_id"`
	SelectedOptionText string    `json:"selected_option_text"`
	IsCorrect          bool      `json:"is_correct"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UserLite identifies the owner of a submission.
type UserLite struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// QuizLite summarizes the quiz a submission belongs to.
type QuizLite struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// SubmissionResponse is the consistent view of a submission returned to clients.
type SubmissionResponse struct {
	ID             uint                       `json:"id"`
	User           UserLite                   `json:"user"`
	Quiz           QuizLite                   `json:"quiz"`
	AttemptedCount int                        `json:"attempted_count"`
	CorrectCount   int                        `json:"correct_count"`
	TotalQuestions int64                      `json:"total_questions"`
	IsCompleted    bool                       `json:"is_completed"`
	Status         string                     `json:"status"`
	Score          string                     `json:"score"`
	Answers        []SubmissionAnswerResponse `json:"answers"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// NewSubmissionResponse converts a submission with its preloaded answers into a DTO.
func NewSubmissionResponse(model models.Submission, totalQuestions int64) SubmissionResponse {
	answers := make([]SubmissionAnswerResponse, 0, len(model.Answers))
	for _, answer := range model.Answers {
		answers = append(answers, SubmissionAnswerResponse{
			QuestionID:         answer.QuestionID,
			QuestionText:       answer.Question.Text,
			SelectedOptionID:   answer.SelectedOptionID,
			SelectedOptionText: answer.SelectedOption.Text,
			IsCorrect:          answer.IsCorrect,
			UpdatedAt:          answer.UpdatedAt,
		})
	}

	response := SubmissionResponse{
		ID:             model.ID,
		User:           UserLite{ID: model.UserID},
		Quiz:           QuizLite{ID: model.QuizID},
		AttemptedCount: model.AttemptedCount,
		CorrectCount:   model.CorrectCount,
		TotalQuestions: totalQuestions,
		IsCompleted:    model.IsCompleted,
		Status:         model.Status(),
		Score:          model.Score(totalQuestions),
		Answers:        answers,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	if model.User.ID != 0 {
		response.User.Username = model.User.Username
	}
	if model.Quiz.ID != 0 {
		response.Quiz.Title = model.Quiz.Title
	}

	return response
}

// NewSubmissionResponseSlice converts submissions using the per-quiz question totals.
func NewSubmissionResponseSlice(items []models.Submission, totals map[uint]int64) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewSubmissionResponse(item, totals[item.QuizID]))
	}
	return responses
}

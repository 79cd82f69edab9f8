package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvariantViolation signals counters that drifted outside their legal range.
var ErrInvariantViolation = errors.New("submission invariant violated")

const (
	// SubmissionStatusCompleted means every question of the quiz has been answered.
	SubmissionStatusCompleted = "Completed"
	// SubmissionStatusInProgress means at least one question has been answered.
	SubmissionStatusInProgress = "In Progress"
	// SubmissionStatusNotStarted means no question has been answered yet.
	SubmissionStatusNotStarted = "Not Started"
	// SubmissionStatusNotAttended is reported for quizzes the user never touched.
	SubmissionStatusNotAttended = "Not Attended"
)

// Submission is a user's single attempt record for a quiz.
type Submission struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	UserID         uint               `gorm:"not null;uniqueIndex:idx_submissions_user_quiz" json:"user_id"`
	QuizID         uint               `gorm:"not null;uniqueIndex:idx_submissions_user_quiz;index" json:"quiz_id"`
	AttemptedCount int                `gorm:"not null;default:0" json:"attempted_count"`
	CorrectCount   int                `gorm:"not null;default:0" json:"correct_count"`
	IsCompleted    bool               `gorm:"not null;default:false" json:"is_completed"`
	Revision       int64              `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `gorm:"index" json:"updated_at"`
	User           User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Quiz           Quiz               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Answers        []SubmissionAnswer `json:"answers"`
}

// SubmissionAnswer is the user's current choice for one question of a submission.
// IsCorrect is a snapshot of the option's correctness when it was selected.
type SubmissionAnswer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SubmissionID     uint      `gorm:"not null;uniqueIndex:idx_submission_answers_submission_question" json:"submission_id"`
	QuestionID       uint      `gorm:"not null;uniqueIndex:idx_submission_answers_submission_question" json:"question_id"`
	SelectedOptionID uint      `gorm:"not null" json:"selected_option_id"`
	IsCorrect        bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Question         Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SelectedOption   Option    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// RecordFirstAnswer registers the first answer to a question.
func (s *Submission) RecordFirstAnswer(answer *SubmissionAnswer, option Option) {
	answer.SelectedOptionID = option.ID
	answer.IsCorrect = option.IsCorrect

	s.AttemptedCount++
	if option.IsCorrect {
		s.CorrectCount++
	}
}

// ReviseAnswer replaces a previously recorded answer. The old credit is always
// withdrawn before the new selection is scored, so only the latest choice counts.
func (s *Submission) ReviseAnswer(answer *SubmissionAnswer, option Option) {
	if answer.IsCorrect {
		s.CorrectCount--
	}

	answer.SelectedOptionID = option.ID
	answer.IsCorrect = option.IsCorrect

	if option.IsCorrect {
		s.CorrectCount++
	}
}

// RefreshCompletion recomputes the completion flag against the quiz size.
// A quiz without questions never completes.
func (s *Submission) RefreshCompletion(totalQuestions int64) {
	s.IsCompleted = totalQuestions > 0 && int64(s.AttemptedCount) == totalQuestions
}

// CheckInvariants verifies the counter ranges against the quiz size.
func (s Submission) CheckInvariants(totalQuestions int64) error {
	switch {
	case s.AttemptedCount < 0 || int64(s.AttemptedCount) > totalQuestions:
		return fmt.Errorf("%w: attempted=%d total=%d", ErrInvariantViolation, s.AttemptedCount, totalQuestions)
	case s.CorrectCount < 0 || s.CorrectCount > s.AttemptedCount:
		return fmt.Errorf("%w: correct=%d attempted=%d", ErrInvariantViolation, s.CorrectCount, s.AttemptedCount)
	case s.IsCompleted != (totalQuestions > 0 && int64(s.AttemptedCount) == totalQuestions):
		return fmt.Errorf("%w: completed=%t attempted=%d total=%d", ErrInvariantViolation, s.IsCompleted, s.AttemptedCount, totalQuestions)
	}
	return nil
}

// Status derives the display status shared by the reporting views.
func (s Submission) Status() string {
	switch {
	case s.IsCompleted:
		return SubmissionStatusCompleted
	case s.AttemptedCount > 0:
		return SubmissionStatusInProgress
	default:
		return SubmissionStatusNotStarted
	}
}

// Score renders the "correct/total" score string.
func (s Submission) Score(totalQuestions int64) string {
	return fmt.Sprintf("%d/%d", s.CorrectCount, totalQuestions)
}

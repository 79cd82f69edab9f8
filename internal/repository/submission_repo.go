package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

// AnswerRecord is the outcome of recording one answer in the ledger.
type AnswerRecord struct {
	Submission      models.Submission
	TotalQuestions  int64
	FirstAnswer     bool
	PreviousCorrect bool
}

// SubmissionRepository owns submissions and their answers.
type SubmissionRepository interface {
	RecordAnswer(ctx context.Context, userID uint, question models.Question, option models.Option) (AnswerRecord, error)
	GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (models.Submission, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]models.Submission, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Submission, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
	ReportWatermark(ctx context.Context) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func withAnswers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Quiz").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("question_id ASC") }).
		Preload("Answers.Question").
		Preload("Answers.SelectedOption")
}

// RecordAnswer applies one answer event inside a single transaction. The
// submission and answer rows are created with conflict-ignoring inserts so that
// concurrent first answers resolve to one create followed by updates.
func (r *submissionRepository) RecordAnswer(ctx context.Context, userID uint, question models.Question, option models.Option) (AnswerRecord, error) {
	var record AnswerRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := models.Submission{UserID: userID, QuizID: question.QuizID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&seed).Error; err != nil {
			return err
		}

		var submission models.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND quiz_id = ?", userID, question.QuizID).
			First(&submission).Error; err != nil {
			return err
		}

		var total int64
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", question.QuizID).Count(&total).Error; err != nil {
			return err
		}

		answer := models.SubmissionAnswer{
			SubmissionID:     submission.ID,
			QuestionID:       question.ID,
			SelectedOptionID: option.ID,
			IsCorrect:        option.IsCorrect,
		}
		inserted := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "question_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&answer)
		if inserted.Error != nil {
			return inserted.Error
		}

		if inserted.RowsAffected == 1 {
			submission.RecordFirstAnswer(&answer, option)
			record.FirstAnswer = true
		} else {
			var existing models.SubmissionAnswer
			if err := tx.Where("submission_id = ? AND question_id = ?", submission.ID, question.ID).
				First(&existing).Error; err != nil {
				return err
			}
			record.PreviousCorrect = existing.IsCorrect
			submission.ReviseAnswer(&existing, option)
			if err := tx.Omit(clause.Associations).Save(&existing).Error; err != nil {
				return err
			}
		}

		submission.RefreshCompletion(total)
		submission.Revision++
		if err := tx.Omit(clause.Associations).Save(&submission).Error; err != nil {
			return err
		}

		var fresh models.Submission
		if err := withAnswers(tx).First(&fresh, submission.ID).Error; err != nil {
			return err
		}

		record.Submission = fresh
		record.TotalQuestions = total
		return nil
	})
	if err != nil {
		return AnswerRecord{}, err
	}

	return record, nil
}

func (r *submissionRepository) GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (models.Submission, error) {
	var submission models.Submission
	if err := withAnswers(r.db.WithContext(ctx)).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := withAnswers(r.db.WithContext(ctx)).
		Where("quiz_id = ?", quizID).
		Order("updated_at DESC").Order("id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("quiz_id ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListAll(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := withAnswers(r.db.WithContext(ctx)).
		Order("updated_at DESC").Order("id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ReportWatermark returns a value that grows with every committed answer and
// every added question. Reports built after reading it reflect at least that
// state of the ledger.
func (r *submissionRepository) ReportWatermark(ctx context.Context) (int64, error) {
	var watermark int64
	if err := r.db.WithContext(ctx).Raw(
		"SELECT CAST((SELECT COALESCE(SUM(revision), 0) FROM submissions) + (SELECT COUNT(*) FROM questions) AS BIGINT)",
	).Scan(&watermark).Error; err != nil {
		return 0, err
	}
	return watermark, nil
}

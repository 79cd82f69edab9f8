package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/models"
)

func TestQuizRepositoryCreateQuestionEnforcesLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuizRepository(db)
	fx := seedQuiz(t, db, 0)
	ctx := context.Background()

	question := models.Question{
		QuizID: fx.quiz.ID,
		Text:   "Second",
		Options: []models.Option{
			{Text: "yes", IsCorrect: true},
			{Text: "no"},
		},
	}
	require.NoError(t, repo.CreateQuestion(ctx, &question, 2))
	require.NotZero(t, question.ID)
	require.Len(t, question.Options, 2)
	require.Equal(t, question.ID, question.Options[0].QuestionID)

	overflow := models.Question{QuizID: fx.quiz.ID, Text: "Third", Options: []models.Option{{Text: "x", IsCorrect: true}}}
	require.ErrorIs(t, repo.CreateQuestion(ctx, &overflow, 2), ErrQuestionLimitReached)

	count, err := repo.CountQuestions(ctx, fx.quiz.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	missing := models.Question{QuizID: fx.quiz.ID + 50, Text: "Orphan"}
	require.ErrorIs(t, repo.CreateQuestion(ctx, &missing, 2), gorm.ErrRecordNotFound)
}

func TestQuizRepositoryActiveFilteringAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuizRepository(db)
	fx := seedQuiz(t, db, 0, 1, 0)
	ctx := context.Background()

	hidden := models.Quiz{Title: "Hidden", CategoryID: fx.quiz.CategoryID, CreatedByID: fx.user.ID, IsActive: true}
	require.NoError(t, repo.Create(ctx, &hidden))
	require.NoError(t, repo.SetActive(ctx, hidden.ID, false))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, fx.quiz.ID, active[0].ID)
	require.Len(t, active[0].Questions, 3)
	require.Len(t, active[0].Questions[0].Options, 2)
	require.NotEmpty(t, active[0].Category.Name)

	_, err = repo.GetActiveByID(ctx, hidden.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	loaded, err := repo.GetByID(ctx, hidden.ID)
	require.NoError(t, err)
	require.False(t, loaded.IsActive)

	require.ErrorIs(t, repo.SetActive(ctx, 9999, true), gorm.ErrRecordNotFound)

	totals, err := repo.CountQuestionsByQuiz(ctx, []uint{fx.quiz.ID, hidden.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), totals[fx.quiz.ID])
	require.Equal(t, int64(0), totals[hidden.ID])

	option, err := repo.GetOption(ctx, fx.questions[1].Options[1].ID)
	require.NoError(t, err)
	require.True(t, option.IsCorrect)
	require.True(t, option.BelongsTo(fx.questions[1].ID))
}

func TestQuizRepositoryExistsIgnoresActiveFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuizRepository(db)
	fx := seedQuiz(t, db, 0)
	ctx := context.Background()

	require.NoError(t, repo.SetActive(ctx, fx.quiz.ID, false))

	exists, err := repo.Exists(ctx, fx.quiz.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.Exists(ctx, fx.quiz.ID+100)
	require.NoError(t, err)
	require.False(t, exists)
}

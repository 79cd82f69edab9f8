package service

import (
	"context"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/models"
)

func TestSubmitAnswerScenario(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()
	user := createUser(t, l.db, "alice")
	quiz := createQuiz(t, l.db, user, "Basics", 0, 1)
	q1, q2 := quiz.Questions[0], quiz.Questions[1]

	resp, err := l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{QuestionID: q1.ID, OptionID: q1.Options[0].ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.AttemptedCount)
	require.Equal(t, 1, resp.CorrectCount)
	require.False(t, resp.IsCompleted)
	require.Equal(t, models.SubmissionStatusInProgress, resp.Status)
	require.Equal(t, "1/2", resp.Score)

	resp, err = l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{QuestionID: q2.ID, OptionID: q2.Options[0].ID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.AttemptedCount)
	require.Equal(t, 1, resp.CorrectCount)
	require.True(t, resp.IsCompleted)

	resp, err = l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{QuestionID: q2.ID, OptionID: q2.Options[1].ID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.AttemptedCount)
	require.Equal(t, 2, resp.CorrectCount)
	require.True(t, resp.IsCompleted)
	require.Equal(t, models.SubmissionStatusCompleted, resp.Status)
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "Basics", resp.Quiz.Title)
	require.Len(t, resp.Answers, 2)
	require.Equal(t, "B", resp.Answers[1].SelectedOptionText)
	require.True(t, resp.Answers[1].IsCorrect)

	require.Equal(t, 3, l.events.count())
}

func TestSubmitAnswerSameOptionIsIdempotent(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()
	user := createUser(t, l.db, "bob")
	quiz := createQuiz(t, l.db, user, "Repeat", 0, 0)
	q := quiz.Questions[0]

	req := dto.AnswerSubmitRequest{QuestionID: q.ID, OptionID: q.Options[0].ID}
	first, err := l.submissions.SubmitAnswer(ctx, user.ID, req)
	require.NoError(t, err)
	second, err := l.submissions.SubmitAnswer(ctx, user.ID, req)
	require.NoError(t, err)

	require.Equal(t, first.AttemptedCount, second.AttemptedCount)
	require.Equal(t, first.CorrectCount, second.CorrectCount)
	require.Equal(t, first.ID, second.ID)
}

func TestSubmitAnswerRejectsUnknownReferences(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()
	user := createUser(t, l.db, "carol")
	quiz := createQuiz(t, l.db, user, "Refs", 0, 1)
	q1, q2 := quiz.Questions[0], quiz.Questions[1]

	_, err := l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{QuestionID: 9999, OptionID: q1.Options[0].ID})
	require.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{QuestionID: q1.ID, OptionID: 9999})
	require.ErrorIs(t, err, ErrOptionNotFound)

	_, err = l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{QuestionID: q1.ID, OptionID: q2.Options[0].ID})
	require.ErrorIs(t, err, ErrOptionNotFound)

	_, err = l.submissions.SubmitAnswer(ctx, user.ID, dto.AnswerSubmitRequest{})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	var rows int64
	require.NoError(t, l.db.Model(&models.Submission{}).Count(&rows).Error)
	require.Zero(t, rows)
	require.Zero(t, l.events.count())
}

func TestSubmitAnswerConcurrentFirstAnswers(t *testing.T) {
	l := newLedger(t, nil)
	user := createUser(t, l.db, "dave")
	quiz := createQuiz(t, l.db, user, "Race", 1, 0)
	q := quiz.Questions[0]

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.submissions.SubmitAnswer(context.Background(), user.ID, dto.AnswerSubmitRequest{QuestionID: q.ID, OptionID: q.Options[1].ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	resp, err := l.reports.GetUserSubmission(context.Background(), user.ID, quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.AttemptedCount)
	require.Equal(t, 1, resp.CorrectCount)
	require.Len(t, resp.Answers, 1)
}

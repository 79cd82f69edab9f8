package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Submission{},
		&models.SubmissionAnswer{},
		&models.ActivityLog{},
	))
	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	_, client := newTestRedisServer(t)
	return client
}

// newTestRedisServer also returns the server so tests can inject failures.
// Retries are off so injected errors surface on the first attempt.
func newTestRedisServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []repository.AnswerRecord
}

func (p *recordingPublisher) PublishAnswered(ctx context.Context, record repository.AnswerRecord, questionID uint, isCorrect bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// ledger bundles the services exercised by the submission scenarios.
type ledger struct {
	db          *gorm.DB
	quizzes     repository.QuizRepository
	submissions SubmissionService
	reports     ReportService
	events      *recordingPublisher
}

func newLedger(t *testing.T, client *redis.Client) ledger {
	t.Helper()
	db := setupServiceDB(t)
	quizzes := repository.NewQuizRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	cache := NewReportCache(client, time.Minute, testLogger())
	events := &recordingPublisher{}

	return ledger{
		db:          db,
		quizzes:     quizzes,
		submissions: NewSubmissionService(submissionRepo, NewAnswerValidator(quizzes), validator.New(), events, testLogger()),
		reports:     NewReportService(quizzes, submissionRepo, cache, testLogger()),
		events:      events,
	}
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x", Role: models.UserRoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// createQuiz stores a quiz whose i-th question has options A and B, with the
// correct one chosen by correct[i] (0 for A, 1 for B).
func createQuiz(t *testing.T, db *gorm.DB, owner models.User, title string, correct ...int) models.Quiz {
	t.Helper()
	category := models.Category{Name: "cat-" + title}
	require.NoError(t, db.Create(&category).Error)

	quiz := models.Quiz{Title: title, CategoryID: category.ID, CreatedByID: owner.ID, IsActive: true}
	require.NoError(t, db.Create(&quiz).Error)

	for i, idx := range correct {
		question := models.Question{QuizID: quiz.ID, Text: fmt.Sprintf("%s Q%d", title, i+1)}
		require.NoError(t, db.Create(&question).Error)
		for j, text := range []string{"A", "B"} {
			option := models.Option{QuestionID: question.ID, Text: text, IsCorrect: j == idx}
			require.NoError(t, db.Create(&option).Error)
			question.Options = append(question.Options, option)
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

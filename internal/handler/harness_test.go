package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/handler"
	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
	"github.com/noah-isme/quiz-grading-api/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
}

type testAPI struct {
	app *fiber.App
	db  *gorm.DB
}

// fakeIdentity stands in for the JWT middleware, reading the caller from test headers.
func fakeIdentity(c *fiber.Ctx) error {
	if raw := c.Get("X-Test-User"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		c.Locals("user_id", uint(id))
		c.Locals("user_role", c.Get("X-Test-Role", models.UserRoleUser))
	}
	return c.Next()
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
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

	logger := zerolog.Nop()
	validate := validator.New()
	quizRepo := repository.NewQuizRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), logger)
	cache := service.NewReportCache(nil, time.Minute, logger)
	reports := service.NewReportService(quizRepo, submissionRepo, cache, logger)
	submissions := service.NewSubmissionService(submissionRepo, service.NewAnswerValidator(quizRepo), validate, nil, logger)
	auth := service.NewAuthService(repository.NewUserRepository(db), validate, activity, service.AuthConfig{
		AccessSecret:       "a",
		RefreshSecret:      "r",
		AllowSelfPromotion: true,
	}, logger)

	app := fiber.New()
	api := app.Group("/api/v1")
	handler.NewAuthHandler(auth, logger).Register(api.Group("/auth"), fakeIdentity)

	protected := api.Group("", fakeIdentity)
	handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, validate, activity, logger), logger).Register(protected.Group("/categories"))
	handler.NewQuizHandler(service.NewQuizService(quizRepo, categoryRepo, validate, activity, logger), logger).Register(protected.Group("/quizzes"))
	handler.NewQuestionHandler(service.NewQuestionService(quizRepo, validate, activity, 0, logger), logger).Register(protected.Group("/questions"))
	handler.NewSubmissionHandler(submissions, reports, logger).Register(protected.Group("/submissions"), nil)
	adminGroup := protected.Group("/admin")
	handler.NewAdminReportHandler(reports, logger).Register(adminGroup)
	handler.NewAdminActivityHandler(activity, logger).Register(adminGroup)

	return testAPI{app: app, db: db}
}

type caller struct {
	id   uint
	role string
}

func (api testAPI) do(t *testing.T, who *caller, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(who.id), 10))
		req.Header.Set("X-Test-Role", who.role)
	}

	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func (api testAPI) user(t *testing.T, username, role string) *caller {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, api.db.Create(&user).Error)
	return &caller{id: user.ID, role: role}
}

// seedQuiz stores a quiz whose questions each have options A and B; correct[i]
// selects the right one (0 for A, 1 for B).
func (api testAPI) seedQuiz(t *testing.T, owner *caller, title string, correct ...int) models.Quiz {
	t.Helper()
	category := models.Category{Name: "cat-" + title}
	require.NoError(t, api.db.Create(&category).Error)
	quiz := models.Quiz{Title: title, CategoryID: category.ID, CreatedByID: owner.id, IsActive: true}
	require.NoError(t, api.db.Create(&quiz).Error)

	for i, idx := range correct {
		question := models.Question{QuizID: quiz.ID, Text: fmt.Sprintf("%s Q%d", title, i+1)}
		require.NoError(t, api.db.Create(&question).Error)
		for j, text := range []string{"A", "B"} {
			option := models.Option{QuestionID: question.ID, Text: text, IsCorrect: j == idx}
			require.NoError(t, api.db.Create(&option).Error)
			question.Options = append(question.Options, option)
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/config"
	"github.com/noah-isme/quiz-grading-api/internal/database"
	"github.com/noah-isme/quiz-grading-api/internal/handler"
	"github.com/noah-isme/quiz-grading-api/internal/middleware"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
	"github.com/noah-isme/quiz-grading-api/internal/router"
	"github.com/noah-isme/quiz-grading-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("%v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access database pool: %v", err)
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, report cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, submission events disabled")
			natsConn = nil
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, validate, activityService, logger)
	quizService := service.NewQuizService(quizRepo, categoryRepo, validate, activityService, logger)
	questionService := service.NewQuestionService(quizRepo, validate, activityService, cfg.MaxQuestionsPerQuiz, logger)
	reportCache := service.NewReportCache(redisClient, cfg.ReportCacheTTL, logger)
	publisher := service.NewSubmissionPublisher(natsConn, cfg.EventsSubject, logger)
	submissionService := service.NewSubmissionService(submissionRepo, service.NewAnswerValidator(quizRepo), validate, publisher, logger)
	reportService := service.NewReportService(quizRepo, submissionRepo, reportCache, logger)
	authService := service.NewAuthService(userRepo, validate, activityService, service.AuthConfig{
		AccessSecret:       cfg.JWTSecret,
		RefreshSecret:      cfg.JWTRefreshSecret,
		AccessTTL:          cfg.JWTAccessTTL,
		RefreshTTL:         cfg.JWTRefreshTTL,
		AllowSelfPromotion: cfg.AllowSelfPromotion,
	}, logger)

	var limiterStorage fiber.Storage
	if redisClient != nil {
		limiterStorage = database.NewRedisStorage(redisClient, "ratelimit:")
	}

	healthChecks := map[string]handler.HealthCheckFunc{
		"database": sqlDB.PingContext,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:          handler.NewAuthHandler(authService, logger),
		CategoryHandler:      handler.NewCategoryHandler(categoryService, logger),
		QuizHandler:          handler.NewQuizHandler(quizService, logger),
		QuestionHandler:      handler.NewQuestionHandler(questionService, logger),
		SubmissionHandler:    handler.NewSubmissionHandler(submissionService, reportService, logger),
		AdminReportHandler:   handler.NewAdminReportHandler(reportService, logger),
		AdminActivityHandler: handler.NewAdminActivityHandler(activityService, logger),
		HealthChecks:         healthChecks,
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
		LimiterStorage:       limiterStorage,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, natsConn)
}

func waitForShutdown(app *fiber.App, natsConn *nats.Conn) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			log.Printf("failed to drain nats connection: %v", err)
		}
	}

	log.Println("server stopped")
}

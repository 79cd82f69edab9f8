package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

// ErrSubmissionNotFound indicates the user has not answered any question of the quiz.
var ErrSubmissionNotFound = errors.New("submission not found")

const allSubmissionsScope = "all"

// ReportService builds read-only views over the submission ledger.
type ReportService interface {
	GetUserSubmission(ctx context.Context, userID, quizID uint) (dto.SubmissionResponse, error)
	GetQuizSubmissions(ctx context.Context, quizID uint) ([]dto.SubmissionResponse, error)
	GetAllSubmissions(ctx context.Context) (dto.AdminSubmissionsResponse, error)
	GetUserQuizOverview(ctx context.Context, userID uint) (dto.UserQuizOverviewResponse, error)
}

type reportService struct {
	quizzes     repository.QuizRepository
	submissions repository.SubmissionRepository
	cache       *ReportCache
	flight      singleflight.Group
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReportService constructs the reporting aggregator. cache may be nil.
func NewReportService(quizzes repository.QuizRepository, submissions repository.SubmissionRepository, cache *ReportCache, logger zerolog.Logger) ReportService {
	return &reportService{
		quizzes:     quizzes,
		submissions: submissions,
		cache:       cache,
		logger:      logger.With().Str("component", "report_service").Logger(),
		now:         time.Now,
	}
}

func (s *reportService) requireQuiz(ctx context.Context, quizID uint) error {
	exists, err := s.quizzes.Exists(ctx, quizID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrQuizNotFound
	}
	return nil
}

func (s *reportService) GetUserSubmission(ctx context.Context, userID, quizID uint) (dto.SubmissionResponse, error) {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	total, err := s.quizzes.CountQuestions(ctx, quizID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission, total), nil
}

func (s *reportService) GetQuizSubmissions(ctx context.Context, quizID uint) ([]dto.SubmissionResponse, error) {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	total, err := s.quizzes.CountQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions, map[uint]int64{quizID: total}), nil
}

func (s *reportService) GetAllSubmissions(ctx context.Context) (dto.AdminSubmissionsResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/quiz-grading-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.all_submissions")
	defer span.End()

	if !s.cache.Enabled() {
		response, err := s.buildAllSubmissions(ctx)
		return s.finishAllSubmissions(span, response, err)
	}

	watermark, err := s.submissions.ReportWatermark(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read ledger watermark, bypassing report cache")
		response, err := s.buildAllSubmissions(ctx)
		return s.finishAllSubmissions(span, response, err)
	}

	var cached dto.AdminSubmissionsResponse
	if s.cache.Load(ctx, allSubmissionsScope, watermark, &cached) {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("report.cache_hit", true))
		return cached, nil
	}

	// Rebuilds at one watermark are shared. The shared call outlives any single
	// caller, so it must not inherit the first caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	shared, err, _ := s.flight.Do(strconv.FormatInt(watermark, 10), func() (interface{}, error) {
		built, err := s.buildAllSubmissions(flightCtx)
		if err == nil {
			s.cache.Store(flightCtx, allSubmissionsScope, watermark, built)
		}
		return built, err
	})
	if err != nil {
		return s.finishAllSubmissions(span, dto.AdminSubmissionsResponse{}, err)
	}
	return s.finishAllSubmissions(span, shared.(dto.AdminSubmissionsResponse), nil)
}

func (s *reportService) finishAllSubmissions(span trace.Span, response dto.AdminSubmissionsResponse, err error) (dto.AdminSubmissionsResponse, error) {
	if err != nil {
		span.RecordError(err)
		return dto.AdminSubmissionsResponse{}, err
	}

	span.SetAttributes(
		attribute.Bool("report.cache_hit", false),
		attribute.Int64("report.total", response.Summary.Total),
	)
	return response, nil
}

func (s *reportService) buildAllSubmissions(ctx context.Context) (dto.AdminSubmissionsResponse, error) {
	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return dto.AdminSubmissionsResponse{}, err
	}

	totals, err := s.quizzes.CountQuestionsByQuiz(ctx, distinctQuizIDs(submissions))
	if err != nil {
		return dto.AdminSubmissionsResponse{}, err
	}

	return dto.AdminSubmissionsResponse{
		Summary:     summarizeSubmissions(submissions),
		Submissions: dto.NewSubmissionResponseSlice(submissions, totals),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *reportService) GetUserQuizOverview(ctx context.Context, userID uint) (dto.UserQuizOverviewResponse, error) {
	var (
		quizzes     []models.Quiz
		submissions []models.Submission
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		quizzes, err = s.quizzes.ListActive(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		submissions, err = s.submissions.ListByUser(groupCtx, userID)
		return err
	})
	if err := group.Wait(); err != nil {
		return dto.UserQuizOverviewResponse{}, err
	}

	byQuiz := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byQuiz[submission.QuizID] = submission
	}

	response := dto.UserQuizOverviewResponse{
		Attended:    make([]dto.QuizOverviewItem, 0),
		NotAttended: make([]dto.QuizOverviewItem, 0),
	}
	for _, quiz := range quizzes {
		total := int64(len(quiz.Questions))
		item := dto.QuizOverviewItem{
			QuizID:         quiz.ID,
			Title:          quiz.Title,
			Category:       quiz.Category.Name,
			TotalQuestions: total,
		}

		submission, attended := byQuiz[quiz.ID]
		if !attended {
			item.Status = models.SubmissionStatusNotAttended
			response.NotAttended = append(response.NotAttended, item)
			continue
		}

		item.Score = submission.Score(total)
		item.Status = submission.Status()
		response.Attended = append(response.Attended, item)
	}

	return response, nil
}

func summarizeSubmissions(submissions []models.Submission) dto.SubmissionSummary {
	summary := dto.SubmissionSummary{Total: int64(len(submissions))}
	for _, submission := range submissions {
		switch {
		case submission.IsCompleted:
			summary.Completed++
		case submission.AttemptedCount > 0:
			summary.InProgress++
		}
	}
	if summary.Total > 0 {
		rate := float64(summary.Completed) / float64(summary.Total) * 100
		summary.CompletionRate = math.Round(rate*100) / 100
	}
	return summary
}

func distinctQuizIDs(submissions []models.Submission) []uint {
	seen := make(map[uint]struct{}, len(submissions))
	ids := make([]uint, 0, len(submissions))
	for _, submission := range submissions {
		if _, ok := seen[submission.QuizID]; ok {
			continue
		}
		seen[submission.QuizID] = struct{}{}
		ids = append(ids, submission.QuizID)
	}
	return ids
}

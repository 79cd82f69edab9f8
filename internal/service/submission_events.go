package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quiz-grading-api/internal/observability"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

const (
	submissionEventAnswered  = "answered"
	submissionEventCompleted = "completed"
)

// SubmissionEvent is the payload published after an answer is committed.
type SubmissionEvent struct {
	Source         string    `json:"source"`
	CorrelationID  string    `json:"correlation_id,omitempty"`
	Event          string    `json:"event"`
	SubmissionID   uint      `json:"submission_id"`
	UserID         uint      `json:"user_id"`
	QuizID         uint      `json:"quiz_id"`
	QuestionID     uint      `json:"question_id"`
	FirstAnswer    bool      `json:"first_answer"`
	IsCorrect      bool      `json:"is_correct"`
	AttemptedCount int       `json:"attempted_count"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int64     `json:"total_questions"`
	IsCompleted    bool      `json:"is_completed"`
	SentAt         time.Time `json:"sent_at"`
}

// SubmissionPublisher announces ledger changes to downstream consumers.
type SubmissionPublisher interface {
	PublishAnswered(ctx context.Context, record repository.AnswerRecord, questionID uint, isCorrect bool)
}

type natsSubmissionPublisher struct {
	conn    *nats.Conn
	subject string
	nodeID  string
	logger  zerolog.Logger
}

// NewSubmissionPublisher publishes to <subject>.answered and <subject>.completed.
// A nil connection yields a publisher that only logs.
func NewSubmissionPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) SubmissionPublisher {
	if subject == "" {
		subject = "quiz.submissions"
	}
	return &natsSubmissionPublisher{
		conn:    conn,
		subject: subject,
		nodeID:  uuid.NewString(),
		logger:  logger.With().Str("component", "submission_events").Logger(),
	}
}

func (p *natsSubmissionPublisher) PublishAnswered(ctx context.Context, record repository.AnswerRecord, questionID uint, isCorrect bool) {
	submission := record.Submission
	event := SubmissionEvent{
		Source:         p.nodeID,
		CorrelationID:  observability.CorrelationID(ctx),
		Event:          submissionEventAnswered,
		SubmissionID:   submission.ID,
		UserID:         submission.UserID,
		QuizID:         submission.QuizID,
		QuestionID:     questionID,
		FirstAnswer:    record.FirstAnswer,
		IsCorrect:      isCorrect,
		AttemptedCount: submission.AttemptedCount,
		CorrectCount:   submission.CorrectCount,
		TotalQuestions: record.TotalQuestions,
		IsCompleted:    submission.IsCompleted,
		SentAt:         time.Now().UTC(),
	}

	p.publish(event)
	if record.FirstAnswer && submission.IsCompleted {
		event.Event = submissionEventCompleted
		p.publish(event)
	}
}

// subjectFor returns the NATS subject an event of the given kind is sent to.
func (p *natsSubmissionPublisher) subjectFor(event string) string {
	return p.subject + "." + event
}

func (p *natsSubmissionPublisher) publish(event SubmissionEvent) {
	if p.conn == nil {
		p.logger.Debug().Str("event", event.Event).Uint("submission_id", event.SubmissionID).Msg("event bus disabled, skipping publish")
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode submission event")
		return
	}

	msg := nats.NewMsg(p.subjectFor(event.Event))
	msg.Data = payload
	if event.CorrelationID != "" {
		msg.Header.Set("X-Correlation-ID", event.CorrelationID)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		observability.SubmissionEvents().WithLabelValues(event.Event, "failed").Inc()
		p.logger.Warn().Err(err).Str("event", event.Event).Msg("failed to publish submission event")
		return
	}
	observability.SubmissionEvents().WithLabelValues(event.Event, "published").Inc()
}

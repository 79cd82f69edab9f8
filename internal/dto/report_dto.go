package dto

import "time"

// SubmissionSummary aggregates completion statistics across all submissions.
type SubmissionSummary struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	InProgress     int64   `json:"in_progress"`
	CompletionRate float64 `json:"completion_rate"`
}

// AdminSubmissionsResponse is the admin-wide submissions report.
type AdminSubmissionsResponse struct {
	Summary     SubmissionSummary    `json:"summary"`
	Submissions []SubmissionResponse `json:"submissions"`
	GeneratedAt time.Time            `json:"generated_at"`
	CacheHit    bool                 `json:"cache_hit"`
}

// QuizOverviewItem describes a quiz from the perspective of one user.
type QuizOverviewItem struct {
	QuizID         uint   `json:"quiz_id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	TotalQuestions int64  `json:"total_questions"`
	Score          string `json:"score,omitempty"`
	Status         string `json:"status"`
}

// UserQuizOverviewResponse partitions active quizzes by whether the user attended them.
type UserQuizOverviewResponse struct {
	Attended    []QuizOverviewItem `json:"attended"`
	NotAttended []QuizOverviewItem `json:"not_attended"`
}

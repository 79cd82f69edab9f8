package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an audit entry for catalog changes made by administrators.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:16;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:32;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

const (
	ActivityCategoryCreated = "category.created"
	ActivityQuizCreated     = "quiz.created"
	ActivityQuizActivated   = "quiz.activated"
	ActivityQuizDeactivated = "quiz.deactivated"
	ActivityQuestionCreated = "question.created"
	ActivityUserPromoted    = "user.promoted"
)

package models

import "time"

// Quiz is an ordered collection of multiple-choice questions.
type Quiz struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CategoryID  uint       `gorm:"not null;index" json:"category_id"`
	CreatedByID uint       `gorm:"not null" json:"created_by_id"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	Category    Category   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"category"`
	CreatedBy   User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Questions   []Question `json:"questions"`
}

// Question belongs to a quiz and owns its answer options.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Quiz      Quiz      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Options   []Option  `json:"options"`
}

// Option is a selectable answer. Exactly one option per question is correct.
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"size:200;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// BelongsTo reports whether the option is attached to the given question.
func (o Option) BelongsTo(questionID uint) bool {
	return o.QuestionID == questionID
}

package models

import "time"

const (
	// UserRoleAdmin grants catalog management and reporting capabilities.
	UserRoleAdmin = "admin"
	// UserRoleUser is the default role assigned at registration.
	UserRoleUser = "user"
)

// User is an account that can take quizzes and, when promoted, manage them.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

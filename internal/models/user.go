package models

import (
	"time"

	"reportly/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName        string         `gorm:"size:128" json:"full_name"`
	PasswordHash    string         `gorm:"size:255" json:"-"`                  // empty for OAuth-only accounts
	Role            string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	Plan            string         `gorm:"size:32;default:'Free'" json:"plan"`
	Credits         int64          `gorm:"not null;default:0" json:"credits"` // legacy mirror of wallet balance
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"`     // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

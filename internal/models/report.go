package models

import (
	"time"

	"gorm.io/gorm"
)

// Report is one generation job. Status follows
// DRAFT -> PENDING -> PROCESSING -> GENERATED | FAILED.
type Report struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	TemplateID  *uint          `gorm:"index" json:"template_id"`
	ToolID      string         `gorm:"size:64;index" json:"tool_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Industry    string         `gorm:"size:128" json:"industry"`
	ReportType  string         `gorm:"size:128" json:"report_type"`
	Audience    string         `gorm:"size:128" json:"audience"`
	Purpose     string         `gorm:"size:255" json:"purpose"`
	Tone        string         `gorm:"size:64" json:"tone"`
	Depth       string         `gorm:"size:64" json:"depth"`
	Status      string         `gorm:"size:20;not null;index;default:'DRAFT'" json:"status"`
	Content     string         `gorm:"type:longtext" json:"content"`
	AIModel     string         `gorm:"size:64" json:"ai_model"`
	CreditsUsed int64          `gorm:"not null;default:0" json:"credits_used"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportInput is one wizard key/value pair captured at report creation.
// Related to its report by id only.
type ReportInput struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReportID uint   `gorm:"not null;index" json:"report_id"`
	FieldKey string `gorm:"size:128;not null" json:"field_key"`
	Value    string `gorm:"type:text" json:"value"`
}

func (ReportInput) TableName() string {
	return "report_inputs"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile stores the text excerpt of a file attached to a draft report.
// The excerpt is embedded into the generation prompt.
type UploadedFile struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ReportID         uint           `gorm:"not null;index" json:"report_id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	OriginalFilename string         `gorm:"size:255;not null" json:"original_filename"`
	ContentType      string         `gorm:"size:128" json:"content_type"`
	FileSize         int64          `json:"file_size"`
	ExtractedText    string         `gorm:"type:longtext" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}

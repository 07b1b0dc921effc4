package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportTemplate is a "tool": a preconfigured report type with prompt
// fragments and the input fields the wizard should collect.
type ReportTemplate struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ToolID             string         `gorm:"uniqueIndex;size:64;not null" json:"tool_id"`
	Title              string         `gorm:"size:255;not null" json:"title"`
	Description        string         `gorm:"size:512" json:"description"`
	Category           string         `gorm:"size:64;index" json:"category"`
	Industry           string         `gorm:"size:128" json:"industry"`
	SystemPrompt       string         `gorm:"type:text" json:"system_prompt"`
	CalculationPrompt  string         `gorm:"type:text" json:"calculation_prompt"`
	OutputFormatPrompt string         `gorm:"type:text" json:"output_format_prompt"`
	IsActive           bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}

// InputField describes one wizard field of a template.
type InputField struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TemplateID  uint   `gorm:"not null;index" json:"template_id"`
	FieldKey    string `gorm:"size:128;not null" json:"field_key"`
	Label       string `gorm:"size:255" json:"label"`
	FieldType   string `gorm:"size:32;default:'text'" json:"field_type"` // text, number, textarea, select
	Placeholder string `gorm:"size:255" json:"placeholder"`
	Required    bool   `gorm:"default:false" json:"required"`
	Options     string `gorm:"type:text" json:"options"` // JSON array for select fields
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

func (InputField) TableName() string {
	return "input_fields"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"uniqueIndex;size:64;not null" json:"name"`
	MonthlyPriceCents  int64          `gorm:"not null;default:0" json:"monthly_price_cents"`
	CreditsPerMonth    int64          `gorm:"not null" json:"credits_per_month"`
	MaxReportsPerMonth int            `gorm:"not null" json:"max_reports_per_month"`
	FeaturesJSON       string         `gorm:"type:text" json:"features_json"`
	IsActive           bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder          int            `gorm:"default:0" json:"sort_order"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

type UserSubscription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	PlanID    uint           `gorm:"not null;index" json:"plan_id"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE, CANCELLED, EXPIRED
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

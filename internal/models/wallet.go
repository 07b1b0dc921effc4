package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditWallet holds one balance per user. Created lazily on first ledger
// access; mutated only through CreditService; never deleted.
type CreditWallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64          `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CreditWallet) TableName() string {
	return "credit_wallets"
}

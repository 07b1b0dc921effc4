package models

import (
	"time"
)

// CreditTransaction is the immutable audit record of one balance change.
// Exactly one row is written per ledger mutation; rows are never updated or
// deleted, so replaying deltas oldest-first reproduces the wallet balance.
type CreditTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Kind         string    `gorm:"size:30;not null;index" json:"kind"` // PURCHASE, REPORT_USAGE, ...
	Delta        int64     `gorm:"not null" json:"delta"`              // positive = credit, negative = debit
	ReferenceID  string    `gorm:"size:128" json:"reference_id"`       // e.g. report id, payment id
	Description  string    `gorm:"size:255" json:"description"`
	BalanceAfter int64     `gorm:"not null" json:"balance_after"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

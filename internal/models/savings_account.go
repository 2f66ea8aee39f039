package models

import "github.com/shopspring/decimal"

// SavingsAccount tracks a user's net worth. Every expense recorded anywhere
// is deducted from it, independent of the day-level budget check, so the
// balance may go negative.
type SavingsAccount struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
}

package models

import "github.com/shopspring/decimal"

// Expense is a single spending record owned by exactly one LedgerDay.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	LedgerDayID string          `gorm:"type:uuid;not null;index" json:"ledger_day_id"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`

	// Relationships
	LedgerDay LedgerDay `gorm:"foreignKey:LedgerDayID" json:"-"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

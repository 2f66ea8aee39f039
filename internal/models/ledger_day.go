package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayStatus classifies how a day's spending compares to its budget.
type DayStatus string

const (
	DayStatusUnderspent DayStatus = "underspent"
	DayStatusBalanced   DayStatus = "balanced"
	DayStatusOverspent  DayStatus = "overspent"
)

// LedgerDay is one user's budget for one calendar date. Exactly one row
// exists per (user, date); rows are created lazily on first access and are
// never deleted by normal flow.
type LedgerDay struct {
	Base
	UserID           string          `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_days_user_date" json:"user_id"`
	Date             time.Time       `gorm:"type:date;not null;uniqueIndex:idx_ledger_days_user_date" json:"date"`
	BaseBudget       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"base_budget"`
	IsManualOverride bool            `gorm:"default:false" json:"is_manual_override"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:LedgerDayID" json:"expenses,omitempty"`
}

// DateOf truncates a timestamp to its calendar date at UTC midnight.
// All ledger day lookups go through this so (user, date) stays unique
// regardless of the caller's wall-clock time or zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Remaining returns base minus total, floored at zero.
func Remaining(base, total decimal.Decimal) decimal.Decimal {
	r := base.Sub(total)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// UsagePercent returns total/base as a percentage, 0 when base is zero.
func UsagePercent(base, total decimal.Decimal) float64 {
	if base.IsZero() {
		return 0
	}
	pct, _ := total.Div(base).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// StatusFor derives the day status from budget and spend. Overspent when
// spending reaches the budget, balanced at 50% usage or above, underspent
// below that. A zero budget is overspent as soon as anything is spent and
// underspent otherwise, since the usage ratio is undefined there.
func StatusFor(base, total decimal.Decimal) DayStatus {
	if base.IsZero() {
		if total.IsPositive() {
			return DayStatusOverspent
		}
		return DayStatusUnderspent
	}
	if total.GreaterThanOrEqual(base) {
		return DayStatusOverspent
	}
	if UsagePercent(base, total) >= 50 {
		return DayStatusBalanced
	}
	return DayStatusUnderspent
}

package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CarryoverMode selects how propagation treats a future day's existing budget.
type CarryoverMode string

const (
	// CarryPreserveIncreases raises a future day's budget only if it is
	// currently lower than the carried remainder. A manual top-up is never
	// reduced by routine recomputation.
	CarryPreserveIncreases CarryoverMode = "preserve_increases"
	// CarryForceExact sets a future day's budget to exactly the carried
	// remainder. Required after an edit or deletion shrinks a past day's
	// remainder, so downstream days do not over-report available budget.
	CarryForceExact CarryoverMode = "force_exact"
)

// CarryoverServicer pushes a day's unspent remainder into future days.
type CarryoverServicer interface {
	// Propagate walks forward from start, day by day, carrying each day's
	// remaining budget into the next. It runs within tx so mutations and
	// their ripple effects commit atomically. Idempotent: re-running with
	// no intervening mutation produces no further writes.
	Propagate(tx *gorm.DB, userID string, start time.Time, mode CarryoverMode) error
}

// DaySummary is the per-day view exposed to clients. EffectiveBudget equals
// RemainingBudget under the final carryover policy.
type DaySummary struct {
	Date            string           `json:"date"`
	Exists          bool             `json:"exists"`
	TotalExpenses   decimal.Decimal  `json:"total_expenses"`
	RemainingBudget decimal.Decimal  `json:"remaining_budget"`
	EffectiveBudget decimal.Decimal  `json:"effective_budget"`
	Status          models.DayStatus `json:"status"`
	UsagePercentage float64          `json:"usage_percentage"`
}

// DayView bundles everything the daily ledger page needs.
type DayView struct {
	Day      *models.LedgerDay                         `json:"day"`
	Summary  DaySummary                                `json:"summary"`
	Expenses *pagination.PageResponse[models.Expense]  `json:"expenses"`
}

// LedgerServicer defines the contract for ledger-day business logic.
type LedgerServicer interface {
	GetOrCreateDay(userID string, date time.Time) (*models.LedgerDay, error)
	GetDay(userID string, date time.Time) (*models.LedgerDay, error)
	// ViewDay is the read-repair entry point: it materializes the day,
	// re-runs carryover from it, and returns the consistent state.
	ViewDay(userID string, date time.Time, page pagination.PageRequest) (*DayView, error)
	// GetDaySummary never creates records; absent days yield a zero-valued
	// sentinel summary with Exists=false and an empty status.
	GetDaySummary(userID string, date time.Time) (*DaySummary, error)
	GetMonthOverview(userID string, year int, month time.Month) ([]DaySummary, error)
	// SetBaseBudget applies a manual override. It does not propagate;
	// callers trigger propagation separately when needed.
	SetBaseBudget(userID string, date time.Time, amount decimal.Decimal) (*models.LedgerDay, error)
}

// ExpenseServicer defines the contract for expense mutations. Every mutation
// re-runs carryover from the affected day in force-exact mode.
type ExpenseServicer interface {
	AddExpense(userID string, date time.Time, description string, price decimal.Decimal, categoryID *string) (*models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	GetDayExpenses(userID string, date time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(userID, expenseID string, description *string, price *decimal.Decimal) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// WithdrawResult reports both sides of a savings withdrawal.
type WithdrawResult struct {
	Account *models.SavingsAccount `json:"account"`
	Day     *models.LedgerDay      `json:"day"`
}

// SavingsServicer defines the contract for the savings balance.
type SavingsServicer interface {
	GetOrCreateAccount(userID string) (*models.SavingsAccount, error)
	Deposit(userID string, amount decimal.Decimal) (*models.SavingsAccount, error)
	// Withdraw moves amount from savings into the target date's base budget
	// and propagates in preserve mode so the top-up survives later reads.
	Withdraw(userID string, amount decimal.Decimal, target time.Time) (*WithdrawResult, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, color, description string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, color, description string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
)

// ledgerService handles ledger-day business logic.
type ledgerService struct {
	db            *gorm.DB
	carryover     CarryoverServicer
	defaultBudget decimal.Decimal
}

// NewLedgerService creates a new LedgerServicer. defaultBudget is the
// allocation given to a day the first time a user views it.
func NewLedgerService(db *gorm.DB, carryover CarryoverServicer, defaultBudget decimal.Decimal) LedgerServicer {
	return &ledgerService{db: db, carryover: carryover, defaultBudget: defaultBudget}
}

// GetOrCreateDay fetches or lazily creates the ledger day for (user, date).
// A day created here receives the default daily budget; an existing day's
// budget is left untouched.
func (s *ledgerService) GetOrCreateDay(userID string, date time.Time) (*models.LedgerDay, error) {
	return getOrCreateDay(s.db, userID, date, s.defaultBudget)
}

// GetDay fetches the ledger day for (user, date) without creating it.
func (s *ledgerService) GetDay(userID string, date time.Time) (*models.LedgerDay, error) {
	var day models.LedgerDay
	err := s.db.Where("user_id = ? AND date = ?", userID, models.DateOf(date)).First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrLedgerDayNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &day, nil
}

// ViewDay serves the daily ledger page. Reads are repairing: the day is
// materialized if absent and carryover re-runs from it before data is
// returned, so stale intermediate state self-heals on the next view.
// Preserve mode keeps routine views from clobbering manual top-ups.
func (s *ledgerService) ViewDay(userID string, date time.Time, page pagination.PageRequest) (*DayView, error) {
	day, err := s.GetOrCreateDay(userID, date)
	if err != nil {
		return nil, err
	}

	if err := s.carryover.Propagate(s.db, userID, day.Date, CarryPreserveIncreases); err != nil {
		return nil, err
	}

	// Reload: propagation from an earlier view may have touched this day.
	day, err = s.GetDay(userID, date)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(day)
	if err != nil {
		return nil, err
	}

	expenses, err := s.dayExpenses(day.ID, page)
	if err != nil {
		return nil, err
	}

	return &DayView{Day: day, Summary: *summary, Expenses: expenses}, nil
}

// GetDaySummary computes the summary for a date, or a zero-valued sentinel
// when the day was never created.
func (s *ledgerService) GetDaySummary(userID string, date time.Time) (*DaySummary, error) {
	day, err := s.GetDay(userID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrLedgerDayNotFound) {
			return &DaySummary{
				Date:            models.DateOf(date).Format("2006-01-02"),
				Exists:          false,
				TotalExpenses:   decimal.Zero,
				RemainingBudget: decimal.Zero,
				EffectiveBudget: decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return s.summarize(day)
}

// GetMonthOverview returns summaries for every materialized day in a month,
// ordered by date.
func (s *ledgerService) GetMonthOverview(userID string, year int, month time.Month) ([]DaySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var days []models.LedgerDay
	err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]DaySummary, 0, len(days))
	for i := range days {
		summary, err := s.summarize(&days[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// SetBaseBudget applies a manual budget override for an explicit date.
// The day is marked as manually overridden; propagation is the caller's
// responsibility.
func (s *ledgerService) SetBaseBudget(userID string, date time.Time, amount decimal.Decimal) (*models.LedgerDay, error) {
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
	}

	day, err := s.GetOrCreateDay(userID, date)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"base_budget":        amount,
		"is_manual_override": true,
	}
	if err := s.db.Model(day).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return day, nil
}

// summarize derives the client-facing numbers for a day. Effective budget
// equals remaining budget under the final carryover policy.
func (s *ledgerService) summarize(day *models.LedgerDay) (*DaySummary, error) {
	total, err := sumExpenses(s.db, day.ID)
	if err != nil {
		return nil, err
	}
	remaining := models.Remaining(day.BaseBudget, total)

	return &DaySummary{
		Date:            day.Date.Format("2006-01-02"),
		Exists:          true,
		TotalExpenses:   total,
		RemainingBudget: remaining,
		EffectiveBudget: remaining,
		Status:          models.StatusFor(day.BaseBudget, total),
		UsagePercentage: models.UsagePercent(day.BaseBudget, total),
	}, nil
}

// dayExpenses lists a day's expenses, newest first.
func (s *ledgerService) dayExpenses(ledgerDayID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("ledger_day_id = ?", ledgerDayID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

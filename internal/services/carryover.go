package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
)

// carryoverHorizonDays caps forward propagation. The bound exists purely to
// prevent unbounded record creation when the remainder stays positive, not
// as a business rule.
const carryoverHorizonDays = 60

// carryoverService walks a user's ledger forward, keeping each day's budget
// consistent with the previous day's unspent remainder.
type carryoverService struct {
	db *gorm.DB
}

// NewCarryoverService creates a new CarryoverServicer.
func NewCarryoverService(db *gorm.DB) CarryoverServicer {
	return &carryoverService{db: db}
}

// Propagate carries remaining budget forward from start until one of the
// stop conditions holds, checked in this order: the source day is missing,
// the next day already has expenses, the remainder reaches zero, or the
// horizon is exhausted. Days the propagator materializes start at a zero
// budget so force-exact carryover fully determines them.
func (s *carryoverService) Propagate(tx *gorm.DB, userID string, start time.Time, mode CarryoverMode) error {
	if mode != CarryPreserveIncreases && mode != CarryForceExact {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown carryover mode")
	}
	if tx == nil {
		tx = s.db
	}

	current := models.DateOf(start)
	for i := 0; i < carryoverHorizonDays; i++ {
		var day models.LedgerDay
		err := tx.Where("user_id = ? AND date = ?", userID, current).First(&day).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to propagate from.
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		total, err := sumExpenses(tx, day.ID)
		if err != nil {
			return err
		}
		remaining := models.Remaining(day.BaseBudget, total)

		next := current.AddDate(0, 0, 1)
		nextDay, err := getOrCreateDay(tx, userID, next, decimal.Zero)
		if err != nil {
			return err
		}

		// Never overwrite a day the user has already spent against.
		count, err := countExpenses(tx, nextDay.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		want := remaining
		if mode == CarryPreserveIncreases && nextDay.BaseBudget.GreaterThan(remaining) {
			want = nextDay.BaseBudget
		}

		if !want.Equal(nextDay.BaseBudget) {
			if err := tx.Model(nextDay).Update("base_budget", want).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if remaining.IsZero() {
			return nil
		}
		current = next
	}

	return nil
}

// sumExpenses returns the total price of a day's expenses, zero when none exist.
func sumExpenses(tx *gorm.DB, ledgerDayID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&models.Expense{}).
		Select("SUM(price)").
		Where("ledger_day_id = ?", ledgerDayID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// countExpenses returns the number of expenses recorded against a day.
func countExpenses(tx *gorm.DB, ledgerDayID string) (int64, error) {
	var count int64
	err := tx.Model(&models.Expense{}).
		Where("ledger_day_id = ?", ledgerDayID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// getOrCreateDay fetches the ledger day for (user, date), creating it with
// the given budget when absent. Idempotent: an existing day's budget is
// never reset.
func getOrCreateDay(tx *gorm.DB, userID string, date time.Time, budget decimal.Decimal) (*models.LedgerDay, error) {
	d := models.DateOf(date)

	var day models.LedgerDay
	err := tx.Where("user_id = ? AND date = ?", userID, d).First(&day).Error
	if err == nil {
		return &day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	day = models.LedgerDay{
		UserID:     userID,
		Date:       d,
		BaseBudget: budget,
	}
	if err := tx.Create(&day).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &day, nil
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
)

// expenseService handles expense mutations. Every mutation is a single
// database transaction that adjusts the savings balance and re-runs
// carryover from the affected day in force-exact mode.
type expenseService struct {
	db             *gorm.DB
	ledger         LedgerServicer
	carryover      CarryoverServicer
	refundOnDelete bool
}

// NewExpenseService creates a new ExpenseServicer. refundOnDelete controls
// whether deleting an expense restores its price to the savings balance;
// the historical behavior is no refund.
func NewExpenseService(db *gorm.DB, ledger LedgerServicer, carryover CarryoverServicer, refundOnDelete bool) ExpenseServicer {
	return &expenseService{db: db, ledger: ledger, carryover: carryover, refundOnDelete: refundOnDelete}
}

// AddExpense records a new expense against a day. The write is rejected
// outright when the day's budget is exhausted or the price exceeds what
// remains; there is no partial admission. On success the price is deducted
// from the savings balance unconditionally: the day tracks discretionary
// allocation, the savings balance tracks net worth, and both move in one
// transaction.
func (s *expenseService) AddExpense(userID string, date time.Time, description string, price decimal.Decimal, categoryID *string) (*models.Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must not be empty")
	}
	if !price.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}

	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", *categoryID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	day, err := s.ledger.GetOrCreateDay(userID, date)
	if err != nil {
		return nil, err
	}

	var expense *models.Expense
	err = s.db.Transaction(func(tx *gorm.DB) error {
		total, err := sumExpenses(tx, day.ID)
		if err != nil {
			return err
		}
		remaining := models.Remaining(day.BaseBudget, total)

		if remaining.IsZero() {
			return apperrors.WithMessage(apperrors.ErrBudgetExceeded, "The day's budget is exhausted")
		}
		if price.GreaterThan(remaining) {
			return apperrors.ErrBudgetExceeded
		}

		expense = &models.Expense{
			UserID:      userID,
			LedgerDayID: day.ID,
			Description: description,
			Price:       price,
			CategoryID:  categoryID,
		}
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := adjustSavings(tx, userID, price.Neg()); err != nil {
			return err
		}

		return s.carryover.Propagate(tx, userID, day.Date, CarryForceExact)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetDayExpenses lists the expenses for a date, newest first.
func (s *expenseService) GetDayExpenses(userID string, date time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	day, err := s.ledger.GetDay(userID, date)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("ledger_day_id = ?", day.ID)

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

// UpdateExpense edits an expense's description and/or price. The day total
// with the new price substituted for the old must not exceed the base
// budget; the check runs against the base budget, not the remainder, since
// the edited expense is already counted. The savings balance moves by the
// price delta to keep the double-entry consistent.
func (s *expenseService) UpdateExpense(userID, expenseID string, description *string, price *decimal.Decimal) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if description != nil && strings.TrimSpace(*description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must not be empty")
	}
	if price != nil && !price.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}

	var day models.LedgerDay
	if err := s.db.First(&day, "id = ?", expense.LedgerDayID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if description != nil {
			updates["description"] = strings.TrimSpace(*description)
		}

		if price != nil {
			total, err := sumExpenses(tx, day.ID)
			if err != nil {
				return err
			}
			newTotal := total.Sub(expense.Price).Add(*price)
			if newTotal.GreaterThan(day.BaseBudget) {
				return apperrors.ErrBudgetExceeded
			}

			delta := price.Sub(expense.Price)
			if !delta.IsZero() {
				if err := adjustSavings(tx, userID, delta.Neg()); err != nil {
					return err
				}
			}
			updates["price"] = *price
		}

		if len(updates) > 0 {
			if err := tx.Model(expense).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return s.carryover.Propagate(tx, userID, day.Date, CarryForceExact)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense unconditionally and re-propagates from
// its day. The savings deduction made on creation is restored only when the
// refund-on-delete policy is enabled.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	var day models.LedgerDay
	if err := s.db.First(&day, "id = ?", expense.LedgerDayID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if s.refundOnDelete {
			if err := adjustSavings(tx, userID, expense.Price); err != nil {
				return err
			}
		}

		return s.carryover.Propagate(tx, userID, day.Date, CarryForceExact)
	})
}

// adjustSavings applies a signed delta to the user's savings balance,
// creating the account lazily. The balance has no floor.
func adjustSavings(tx *gorm.DB, userID string, delta decimal.Decimal) error {
	var account models.SavingsAccount
	err := tx.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.SavingsAccount{UserID: userID, Balance: decimal.Zero}
		if err := tx.Create(&account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	} else if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	newBalance := account.Balance.Add(delta)
	if err := tx.Model(&account).Update("balance", newBalance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
)

// savingsService handles the per-user savings balance.
type savingsService struct {
	db        *gorm.DB
	ledger    LedgerServicer
	carryover CarryoverServicer
}

// NewSavingsService creates a new SavingsServicer.
func NewSavingsService(db *gorm.DB, ledger LedgerServicer, carryover CarryoverServicer) SavingsServicer {
	return &savingsService{db: db, ledger: ledger, carryover: carryover}
}

// GetOrCreateAccount fetches the user's savings account, creating it with a
// zero balance on first access.
func (s *savingsService) GetOrCreateAccount(userID string) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := s.db.Where("user_id = ?", userID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account = models.SavingsAccount{UserID: userID, Balance: decimal.Zero}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// Deposit adds to the savings balance. Deposits must be positive whole
// currency units; sub-unit deposits are rejected by policy.
func (s *savingsService) Deposit(userID string, amount decimal.Decimal) (*models.SavingsAccount, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deposit must be greater than zero")
	}
	if !amount.IsInteger() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deposit must be a whole currency amount")
	}

	account, err := s.GetOrCreateAccount(userID)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance.Add(amount)
	if err := s.db.Model(account).Update("balance", newBalance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// Withdraw moves amount out of savings and into the target date's base
// budget. The day is flagged as a manual override and carryover runs in
// preserve mode so the next routine view cannot undo the top-up.
func (s *savingsService) Withdraw(userID string, amount decimal.Decimal, target time.Time) (*WithdrawResult, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "withdrawal must be greater than zero")
	}

	account, err := s.GetOrCreateAccount(userID)
	if err != nil {
		return nil, err
	}
	if !account.Balance.IsPositive() || amount.GreaterThan(account.Balance) {
		return nil, apperrors.ErrInsufficientSavings
	}

	day, err := s.ledger.GetOrCreateDay(userID, target)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		newBalance := account.Balance.Sub(amount)
		if err := tx.Model(account).Update("balance", newBalance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := map[string]interface{}{
			"base_budget":        day.BaseBudget.Add(amount),
			"is_manual_override": true,
		}
		if err := tx.Model(day).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.carryover.Propagate(tx, userID, day.Date, CarryPreserveIncreases)
	})
	if err != nil {
		return nil, err
	}

	return &WithdrawResult{Account: account, Day: day}, nil
}

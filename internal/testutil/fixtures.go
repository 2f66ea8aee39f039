package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Amount parses a decimal literal, failing the test on bad input.
func Amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestLedgerDay creates a ledger day with the given base budget.
func CreateTestLedgerDay(t *testing.T, db *gorm.DB, userID string, date time.Time, budget string) *models.LedgerDay {
	t.Helper()

	day := &models.LedgerDay{
		UserID:     userID,
		Date:       models.DateOf(date),
		BaseBudget: Amount(t, budget),
	}
	if err := db.Create(day).Error; err != nil {
		t.Fatalf("failed to create test ledger day: %v", err)
	}
	return day
}

// CreateTestExpense creates an expense on the given ledger day.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, ledgerDayID, price string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		LedgerDayID: ledgerDayID,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Price:       Amount(t, price),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestSavings creates a savings account with the given balance.
func CreateTestSavings(t *testing.T, db *gorm.DB, userID, balance string) *models.SavingsAccount {
	t.Helper()

	account := &models.SavingsAccount{
		UserID:  userID,
		Balance: Amount(t, balance),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test savings account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Color:  "#ff6b6b",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	addExpenseFn     func(userID string, date time.Time, description string, price decimal.Decimal, categoryID *string) (*models.Expense, error)
	getExpenseByIDFn func(userID, expenseID string) (*models.Expense, error)
	getDayExpensesFn func(userID string, date time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	updateExpenseFn  func(userID, expenseID string, description *string, price *decimal.Decimal) (*models.Expense, error)
	deleteExpenseFn  func(userID, expenseID string) error
}

func (m *mockExpenseService) AddExpense(userID string, date time.Time, description string, price decimal.Decimal, categoryID *string) (*models.Expense, error) {
	if m.addExpenseFn != nil {
		return m.addExpenseFn(userID, date, description, price, categoryID)
	}
	return &models.Expense{UserID: userID, Description: description, Price: price}, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{UserID: userID}, nil
}

func (m *mockExpenseService) GetDayExpenses(userID string, date time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.getDayExpensesFn != nil {
		return m.getDayExpensesFn(userID, date, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID string, description *string, price *decimal.Decimal) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, description, price)
	}
	return &models.Expense{UserID: userID}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/ledger/:date/expenses", handler.CreateExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

// --- tests ---

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseFn: func(userID string, date time.Time, description string, price decimal.Decimal, _ *string) (*models.Expense, error) {
				return &models.Expense{UserID: userID, Description: description, Price: price}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/ledger/2025-03-10/expenses", `{"description":"lunch","price":"12.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["description"] != "lunch" {
			t.Errorf("expected description lunch, got %v", expense["description"])
		}
	})

	t.Run("returns 400 when the budget is exceeded", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseFn: func(_ string, _ time.Time, _ string, _ decimal.Decimal, _ *string) (*models.Expense, error) {
				return nil, apperrors.ErrBudgetExceeded
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/ledger/2025-03-10/expenses", `{"description":"too much","price":"999.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_EXCEEDED")
	})

	t.Run("returns 400 on missing description", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/ledger/2025-03-10/expenses", `{"price":"12.50"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/ledger/not-a-date/expenses", `{"description":"lunch","price":"12.50"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseFn: func(_ string, _ time.Time, _ string, _ decimal.Decimal, _ *string) (*models.Expense, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/ledger/2025-03-10/expenses",
			`{"description":"lunch","price":"12.50","category_id":"0195f1a2-0000-7000-8000-000000000002"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(userID, expenseID string, description *string, price *decimal.Decimal) (*models.Expense, error) {
				e := &models.Expense{UserID: userID}
				if description != nil {
					e.Description = *description
				}
				if price != nil {
					e.Price = *price
				}
				return e, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/abc", `{"description":"brunch","price":"20.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["description"] != "brunch" {
			t.Errorf("expected description brunch, got %v", expense["description"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ string, _ *string, _ *decimal.Decimal) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/missing", `{"description":"brunch"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/abc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(_, _ string) error {
				return apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  *string         `json:"category_id" binding:"omitempty,uuid"`
}

// UpdateExpenseRequest represents the request payload for editing an expense.
type UpdateExpenseRequest struct {
	Description *string          `json:"description" binding:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price"`
}

// CreateExpense handles recording a new expense against a day.
// @Summary     Add an expense
// @Description Record an expense against a date's budget; rejected when it would overspend the day
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date    path string               true "Date (YYYY-MM-DD)"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} map[string]interface{} "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or budget exceeded"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/{date}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDateParam(c, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.AddExpense(userID, date, req.Description, req.Price, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"description": req.Description, "price": req.Price, "date": date.Format("2006-01-02")})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// UpdateExpense handles editing an existing expense.
// @Summary     Edit an expense
// @Description Change an expense's description or price; rejected when the day total would exceed its budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated fields"
// @Success     200 {object} map[string]interface{} "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or budget exceeded"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, c.Param("id"), req.Description, req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EDIT_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"description": req.Description, "price": req.Price})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles removing an expense.
// @Summary     Delete an expense
// @Description Remove an expense and re-run carryover from its day
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID := c.Param("id")
	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

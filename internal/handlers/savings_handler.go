package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/services"
)

// SavingsHandler handles savings-account requests.
type SavingsHandler struct {
	savingsService services.SavingsServicer
	auditService   services.AuditServicer
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(savingsService services.SavingsServicer, auditService services.AuditServicer) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService, auditService: auditService}
}

// DepositRequest represents the request payload for a savings deposit.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest represents the request payload for a savings withdrawal.
// The withdrawn amount tops up the target date's budget.
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   string          `json:"date" binding:"required,ledger_date"`
}

// GetAccount handles fetching the savings balance.
// @Summary     Get savings account
// @Description Get the authenticated user's savings balance
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Savings account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings [get]
func (h *SavingsHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.savingsService.GetOrCreateAccount(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// Deposit handles adding to the savings balance.
// @Summary     Deposit into savings
// @Description Add a positive whole-unit amount to the savings balance
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DepositRequest true "Deposit amount"
// @Success     200 {object} map[string]interface{} "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/deposit [post]
func (h *SavingsHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.savingsService.Deposit(userID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEPOSIT_SAVINGS", "savings_account", account.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// Withdraw handles moving savings into a day's budget.
// @Summary     Withdraw from savings
// @Description Move an amount from savings into the target date's base budget
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WithdrawRequest true "Withdrawal amount and target date"
// @Success     200 {object} services.WithdrawResult "Updated account and day"
// @Failure     400 {object} ErrorResponse "Invalid amount or insufficient savings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/withdraw [post]
func (h *SavingsHandler) Withdraw(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Binding already validated the format.
	target, _ := time.Parse("2006-01-02", req.Date)

	result, err := h.savingsService.Withdraw(userID, req.Amount, target)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "WITHDRAW_SAVINGS", "savings_account", result.Account.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "date": req.Date})

	c.JSON(http.StatusOK, gin.H{"account": result.Account, "day": result.Day})
}

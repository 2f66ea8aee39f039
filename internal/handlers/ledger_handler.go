package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
)

// LedgerHandler handles ledger-day requests.
type LedgerHandler struct {
	ledgerService    services.LedgerServicer
	carryoverService services.CarryoverServicer
	savingsService   services.SavingsServicer
	auditService     services.AuditServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(
	ledgerService services.LedgerServicer,
	carryoverService services.CarryoverServicer,
	savingsService services.SavingsServicer,
	auditService services.AuditServicer,
) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:    ledgerService,
		carryoverService: carryoverService,
		savingsService:   savingsService,
		auditService:     auditService,
	}
}

// UpdateBudgetRequest represents the request payload for a manual budget override.
type UpdateBudgetRequest struct {
	BaseBudget decimal.Decimal `json:"base_budget" binding:"required"`
}

// GetDay handles the daily ledger view.
// @Summary     View a day's ledger
// @Description Get (and lazily create) the ledger for a date, with expenses, summary, and savings balance. Carryover is recomputed before serving.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date      path  string true  "Date (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} services.DayView "Day view"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/{date} [get]
func (h *LedgerHandler) GetDay(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.ledgerService.ViewDay(userID, date, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.savingsService.GetOrCreateAccount(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":             view.Day,
		"summary":         view.Summary,
		"expenses":        view.Expenses,
		"savings_balance": account.Balance,
	})
}

// GetDaySummary handles the lightweight day summary lookup.
// @Summary     Get a day summary
// @Description Get totals, remaining budget, status, and usage for a date. Days never viewed yield a zero-valued summary.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date path string true "Date (YYYY-MM-DD)"
// @Success     200 {object} services.DaySummary "Day summary"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/{date}/summary [get]
func (h *LedgerHandler) GetDaySummary(c *gin.Context) {
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

	summary, err := h.ledgerService.GetDaySummary(userID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetMonthOverview handles the month overview.
// @Summary     Get a month overview
// @Description Get per-day summaries for every materialized day in a month
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} map[string]interface{} "Month overview"
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /calendar/{year}/{month} [get]
func (h *LedgerHandler) GetMonthOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month"))
		return
	}

	days, err := h.ledgerService.GetMonthOverview(userID, year, time.Month(month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "days": days})
}

// UpdateBudget handles a manual budget override for a date.
// @Summary     Override a day's budget
// @Description Set the base budget for a date directly, then re-run carryover without lowering manual top-ups
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date    path string              true "Date (YYYY-MM-DD)"
// @Param       request body UpdateBudgetRequest true "New base budget"
// @Success     200 {object} map[string]interface{} "Updated day"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/{date}/budget [put]
func (h *LedgerHandler) UpdateBudget(c *gin.Context) {
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

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	day, err := h.ledgerService.SetBaseBudget(userID, date, req.BaseBudget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The override itself does not ripple; push it forward here.
	if err := h.carryoverService.Propagate(nil, userID, day.Date, services.CarryPreserveIncreases); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "OVERRIDE_BUDGET", "ledger_day", day.ID, c.ClientIP(),
		map[string]interface{}{"date": day.Date.Format("2006-01-02"), "base_budget": req.BaseBudget})

	c.JSON(http.StatusOK, gin.H{"day": day})
}

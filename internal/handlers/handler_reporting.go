package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for the derived reports.
type reportingHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &reportingHandler{balanceService: balanceService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/income-statement", h.incomeStatement)
	}
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Buckets every active account into debit/credit columns as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := parseDateQuery(c, "asOf", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tb, err := h.balanceService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// incomeStatement godoc
// @Summary Income statement report
// @Description Nets revenue and expense activity over a date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, err := parseDateQuery(c, "from", time.Time{})
	if err != nil || from.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from date is required as YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c, "to", time.Time{})
	if err != nil || to.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date is required as YYYY-MM-DD"})
		return
	}

	lines, err := h.balanceService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to build income statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build income statement"})
		return
	}

	resp := dto.IncomeStatementResponse{
		From: domain.DateOnly(from),
		To:   domain.DateOnly(to),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, dto.IncomeStatementLineResponse{
			AccountID:   line.AccountID,
			AccountCode: line.AccountCode,
			AccountType: string(line.AccountType),
			Net:         line.Net,
		})
		if line.AccountType == domain.Revenue {
			resp.TotalRevenue += line.Net
		} else {
			resp.TotalExpense += line.Net
		}
	}
	resp.NetIncome = resp.TotalRevenue - resp.TotalExpense
	c.JSON(http.StatusOK, resp)
}

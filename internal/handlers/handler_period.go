package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to fiscal periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// registerPeriodRoutes registers routes related to fiscal periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.POST("/:id/lock", h.lockPeriod)
		periods.POST("/:id/unlock", h.unlockPeriod)
		periods.GET("/:id/checklist", h.closingChecklist)
		periods.POST("/:id/close", h.closePeriod)
		periods.POST("/:id/reopen", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create a fiscal period
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Range overlaps an existing period"
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrOverlappingPeriod), errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create period"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Security BearerAuth
// @Router /periods/{id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		} else {
			logger.Error("Failed to get period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve period"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags periods
// @Produce  json
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list periods"})
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

func (h *periodHandler) togglePeriodLock(c *gin.Context, lock bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var period *domain.FiscalPeriod
	var err error
	if lock {
		period, err = h.periodService.LockPeriod(c.Request.Context(), c.Param("id"), userID)
	} else {
		period, err = h.periodService.UnlockPeriod(c.Request.Context(), c.Param("id"), userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to change period lock", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change period lock"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// lockPeriod godoc
// @Summary Lock a period against posting
// @Tags periods
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Already locked or closed"
// @Security BearerAuth
// @Router /periods/{id}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.togglePeriodLock(c, true)
}

// unlockPeriod godoc
// @Summary Unlock a locked period
// @Tags periods
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Not locked or closed"
// @Security BearerAuth
// @Router /periods/{id}/unlock [post]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	h.togglePeriodLock(c, false)
}

// closingChecklist godoc
// @Summary Run the pre-close checklist
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.ChecklistResponse
// @Security BearerAuth
// @Router /periods/{id}/checklist [get]
func (h *periodHandler) closingChecklist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	checklist, err := h.periodService.ClosingChecklist(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		} else {
			logger.Error("Failed to build checklist", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build checklist"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToChecklistResponse(checklist))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Runs the checklist, posts the closing entry, and locks the period
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   id path string true "Period ID"
// @Param   close body dto.ClosePeriodRequest false "Close notes"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 409 {object} map[string]string "Checklist blocked or already closed"
// @Security BearerAuth
// @Router /periods/{id}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, closingEntry, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		case errors.Is(err, apperrors.ErrPeriodNotReady), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close period"})
		}
		return
	}

	resp := dto.ClosePeriodResponse{
		Success: true,
		Message: "Period " + period.Name + " closed",
	}
	if closingEntry != nil {
		entryResp := dto.ToEntryResponse(closingEntry)
		resp.ClosingEntry = &entryResp
	}
	c.JSON(http.StatusOK, resp)
}

// reopenPeriod godoc
// @Summary Reopen a closed period
// @Description Reverses the closing entry and clears the closed and locked flags
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Period is not closed"
// @Security BearerAuth
// @Router /periods/{id}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reopen period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen period"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recurringHandler handles HTTP requests for recurring entry templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

// registerRecurringRoutes registers the recurring template routes.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := &recurringHandler{recurringService: recurringService}

	recurring := rg.Group("/recurring")
	{
		recurring.POST("", h.createRecurring)
		recurring.GET("", h.listRecurring)
		recurring.POST("/run", h.runDue)
		recurring.POST("/:id/deactivate", h.deactivateRecurring)
	}
}

// createRecurring godoc
// @Summary Create a recurring entry template
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   template body dto.CreateRecurringRequest true "Template details"
// @Success 201 {object} dto.RecurringResponse
// @Failure 400 {object} map[string]string "Unbalanced lines or validation error"
// @Security BearerAuth
// @Router /recurring [post]
func (h *recurringHandler) createRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recurring, err := h.recurringService.CreateRecurring(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalancedEntry):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create recurring template", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recurring template"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringResponse(recurring))
}

// listRecurring godoc
// @Summary List recurring templates
// @Tags recurring
// @Produce  json
// @Param   activeOnly query bool false "Only active templates"
// @Success 200 {array} dto.RecurringResponse
// @Security BearerAuth
// @Router /recurring [get]
func (h *recurringHandler) listRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templates, err := h.recurringService.ListRecurring(c.Request.Context(), c.Query("activeOnly") == "true")
	if err != nil {
		logger.Error("Failed to list recurring templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recurring templates"})
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringResponses(templates))
}

// runDue godoc
// @Summary Materialize due recurring templates
// @Description Creates draft entries for every template due today; normally
// @Description driven by the scheduler, exposed for manual catch-up runs
// @Tags recurring
// @Produce  json
// @Success 200 {object} dto.RunRecurringResponse
// @Security BearerAuth
// @Router /recurring/run [post]
func (h *recurringHandler) runDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.recurringService.RunDue(c.Request.Context(), time.Now().UTC(), userID)
	if err != nil {
		logger.Error("Recurring run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recurring run failed"})
		return
	}
	c.JSON(http.StatusOK, dto.RunRecurringResponse{EntriesCreated: created})
}

// deactivateRecurring godoc
// @Summary Deactivate a recurring template
// @Tags recurring
// @Param   id path string true "Template ID"
// @Success 204
// @Security BearerAuth
// @Router /recurring/{id}/deactivate [post]
func (h *recurringHandler) deactivateRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurringService.DeactivateRecurring(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			logger.Error("Failed to deactivate template", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate template"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

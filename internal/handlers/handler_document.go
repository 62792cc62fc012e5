package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler exposes the posting rules: business documents in, balanced
// journal entries out.
type documentHandler struct {
	postingService portssvc.PostingSvcFacade
}

// registerDocumentRoutes registers the document posting routes.
func registerDocumentRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := &documentHandler{postingService: postingService}

	documents := rg.Group("/documents")
	{
		documents.POST("/invoices", h.postInvoice)
		documents.POST("/bills", h.postBill)
		documents.POST("/payments", h.postPayment)
		documents.POST("/void", h.voidDocument)
	}
}

// respondDocumentError maps posting rule errors onto HTTP statuses.
func respondDocumentError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalancedEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPeriodNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// postInvoice godoc
// @Summary Post an invoice
// @Description Books the invoice against accounts receivable, revenue, and tax payable
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   invoice body dto.PostInvoiceRequest true "Invoice to post"
// @Success 201 {object} dto.EntryResponse
// @Failure 409 {object} map[string]string "Invoice already posted or period closed"
// @Security BearerAuth
// @Router /documents/invoices [post]
func (h *documentHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.postingService.PostInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to post invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// postBill godoc
// @Summary Post a vendor bill
// @Description Books the bill against expenses, tax receivable, and accounts payable
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   bill body dto.PostBillRequest true "Bill to post"
// @Success 201 {object} dto.EntryResponse
// @Failure 409 {object} map[string]string "Bill already posted or period closed"
// @Security BearerAuth
// @Router /documents/bills [post]
func (h *documentHandler) postBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.postingService.PostBill(c.Request.Context(), req, userID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to post bill")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// postPayment godoc
// @Summary Post a payment
// @Description Books a received or made payment against cash and the matching control account
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   payment body dto.PostPaymentRequest true "Payment to post"
// @Success 201 {object} dto.EntryResponse
// @Failure 409 {object} map[string]string "Payment already posted or period closed"
// @Security BearerAuth
// @Router /documents/payments [post]
func (h *documentHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.postingService.PostPayment(c.Request.Context(), req, userID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to post payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// voidDocument godoc
// @Summary Void a posted document
// @Description Reverses the document's active posting entry so it can be re-posted
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   void body dto.VoidDocumentRequest true "Document to void"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Document has no active posting entry"
// @Security BearerAuth
// @Router /documents/void [post]
func (h *documentHandler) voidDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.postingService.VoidDocument(c.Request.Context(), req, userID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to void document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

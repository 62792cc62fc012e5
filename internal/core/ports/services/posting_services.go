package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// PostingSvcFacade turns business documents into balanced journal entries and
// back out again via reversal. Each Post operation fails with
// apperrors.ErrAlreadyPosted when the document already has an active entry.
type PostingSvcFacade interface {
	PostInvoice(ctx context.Context, req dto.PostInvoiceRequest, userID string) (*domain.JournalEntry, error)
	PostBill(ctx context.Context, req dto.PostBillRequest, userID string) (*domain.JournalEntry, error)
	PostPayment(ctx context.Context, req dto.PostPaymentRequest, userID string) (*domain.JournalEntry, error)

	// VoidDocument reverses the document's active posting entry.
	VoidDocument(ctx context.Context, req dto.VoidDocumentRequest, userID string) (*domain.JournalEntry, error)
}

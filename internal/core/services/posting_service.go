package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// postingService maps business documents onto balanced journal entries using
// the system accounts of the seeded chart. Entries it creates are balanced by
// construction and posted immediately.
type postingService struct {
	BaseService
	journalSvc  portssvc.JournalSvcFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewPostingService creates a new posting rules service.
func NewPostingService(journalSvc portssvc.JournalSvcFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.PostingSvcFacade {
	return &postingService{journalSvc: journalSvc, accountRepo: accountRepo}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// taxAmount applies a fractional rate string such as "0.075" to a subtotal in
// minor units, rounding half up to the nearest unit.
func taxAmount(subtotal int64, rate string) (int64, error) {
	if rate == "" {
		return 0, nil
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid tax rate %q", apperrors.ErrValidation, rate)
	}
	if r.IsNegative() {
		return 0, fmt.Errorf("%w: tax rate must be nonnegative", apperrors.ErrValidation)
	}
	return decimal.NewFromInt(subtotal).Mul(r).Round(0).IntPart(), nil
}

// systemAccountID resolves one of the seeded system accounts by code.
func (s *postingService) systemAccountID(ctx context.Context, code string) (string, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: system account %s is missing", apperrors.ErrInternal, code)
		}
		return "", err
	}
	return account.AccountID, nil
}

// checkNotPosted rejects documents that already have an active posting entry.
func (s *postingService) checkNotPosted(ctx context.Context, sourceType domain.SourceType, sourceID string) error {
	existing, err := s.journalSvc.GetEntryBySource(ctx, sourceType, sourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check existing posting: %w", err)
	}
	return fmt.Errorf("%w: %s %s already posted as %s",
		apperrors.ErrAlreadyPosted, sourceType, sourceID, existing.EntryNumber)
}

// PostInvoice books an invoice: debit accounts receivable for the gross total,
// credit each revenue line, credit tax payable for the tax portion.
func (s *postingService) PostInvoice(ctx context.Context, req dto.PostInvoiceRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.checkNotPosted(ctx, domain.SourceInvoice, req.InvoiceID); err != nil {
		return nil, err
	}

	var subtotal int64
	for _, line := range req.Lines {
		subtotal += line.Amount
	}
	tax, err := taxAmount(subtotal, req.TaxRate)
	if err != nil {
		return nil, err
	}

	receivableID, err := s.systemAccountID(ctx, domain.SystemAccountReceivable)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{{
		AccountID:   receivableID,
		Debit:       subtotal + tax,
		Description: fmt.Sprintf("Invoice %s", req.InvoiceNumber),
	}}
	for _, line := range req.Lines {
		lines = append(lines, domain.JournalEntryLine{
			AccountID:   line.RevenueAccountID,
			Credit:      line.Amount,
			Description: line.Description,
		})
	}
	if tax > 0 {
		taxPayableID, err := s.systemAccountID(ctx, domain.SystemAccountTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalEntryLine{
			AccountID:   taxPayableID,
			Credit:      tax,
			Description: "Sales tax",
		})
	}

	entry, err := s.journalSvc.CreateEntry(ctx, portssvc.NewEntryInput{
		Date:        req.Date,
		Description: fmt.Sprintf("Invoice %s", req.InvoiceNumber),
		Reference:   req.InvoiceNumber,
		SourceType:  domain.SourceInvoice,
		SourceID:    req.InvoiceID,
		Lines:       lines,
		AutoPost:    true,
	}, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invoice posted",
		slog.String("invoice_id", req.InvoiceID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// PostBill books a vendor bill: debit each expense line, debit tax receivable
// for the tax portion, credit accounts payable for the gross total.
func (s *postingService) PostBill(ctx context.Context, req dto.PostBillRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.checkNotPosted(ctx, domain.SourceBill, req.BillID); err != nil {
		return nil, err
	}

	var subtotal int64
	for _, line := range req.Lines {
		subtotal += line.Amount
	}
	tax, err := taxAmount(subtotal, req.TaxRate)
	if err != nil {
		return nil, err
	}

	payableID, err := s.systemAccountID(ctx, domain.SystemAccountPayable)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.JournalEntryLine, 0, len(req.Lines)+2)
	for _, line := range req.Lines {
		lines = append(lines, domain.JournalEntryLine{
			AccountID:   line.ExpenseAccountID,
			Debit:       line.Amount,
			Description: line.Description,
		})
	}
	if tax > 0 {
		taxReceivableID, err := s.systemAccountID(ctx, domain.SystemAccountTaxReceivable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalEntryLine{
			AccountID:   taxReceivableID,
			Debit:       tax,
			Description: "Input tax",
		})
	}
	lines = append(lines, domain.JournalEntryLine{
		AccountID:   payableID,
		Credit:      subtotal + tax,
		Description: fmt.Sprintf("Bill %s", req.BillNumber),
	})

	entry, err := s.journalSvc.CreateEntry(ctx, portssvc.NewEntryInput{
		Date:        req.Date,
		Description: fmt.Sprintf("Bill %s", req.BillNumber),
		Reference:   req.BillNumber,
		SourceType:  domain.SourceBill,
		SourceID:    req.BillID,
		Lines:       lines,
		AutoPost:    true,
	}, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Bill posted",
		slog.String("bill_id", req.BillID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// PostPayment books a payment. RECEIVED debits cash and credits accounts
// receivable; MADE debits accounts payable and credits cash.
func (s *postingService) PostPayment(ctx context.Context, req dto.PostPaymentRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.checkNotPosted(ctx, domain.SourcePayment, req.PaymentID); err != nil {
		return nil, err
	}

	cashID, err := s.systemAccountID(ctx, domain.SystemAccountCash)
	if err != nil {
		return nil, err
	}

	var lines []domain.JournalEntryLine
	var description string
	switch req.Direction {
	case dto.PaymentReceived:
		receivableID, err := s.systemAccountID(ctx, domain.SystemAccountReceivable)
		if err != nil {
			return nil, err
		}
		description = "Customer payment"
		lines = []domain.JournalEntryLine{
			{AccountID: cashID, Debit: req.Amount, Description: description},
			{AccountID: receivableID, Credit: req.Amount, Description: description},
		}
	case dto.PaymentMade:
		payableID, err := s.systemAccountID(ctx, domain.SystemAccountPayable)
		if err != nil {
			return nil, err
		}
		description = "Vendor payment"
		lines = []domain.JournalEntryLine{
			{AccountID: payableID, Debit: req.Amount, Description: description},
			{AccountID: cashID, Credit: req.Amount, Description: description},
		}
	default:
		return nil, fmt.Errorf("%w: unknown payment direction %q", apperrors.ErrValidation, req.Direction)
	}

	entry, err := s.journalSvc.CreateEntry(ctx, portssvc.NewEntryInput{
		Date:        req.Date,
		Description: description,
		Reference:   req.Reference,
		SourceType:  domain.SourcePayment,
		SourceID:    req.PaymentID,
		Lines:       lines,
		AutoPost:    true,
	}, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Payment posted",
		slog.String("payment_id", req.PaymentID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// VoidDocument reverses the active posting entry of a document. The document
// can be re-posted afterwards; the reversal pair stays in the ledger.
func (s *postingService) VoidDocument(ctx context.Context, req dto.VoidDocumentRequest, userID string) (*domain.JournalEntry, error) {
	sourceType := domain.SourceType(req.SourceType)
	entry, err := s.journalSvc.GetEntryBySource(ctx, sourceType, req.SourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no posting entry for %s %s", apperrors.ErrNotFound, sourceType, req.SourceID)
		}
		return nil, err
	}

	description := req.Reason
	if description == "" {
		description = fmt.Sprintf("Void %s %s", sourceType, req.SourceID)
	}
	reversal, err := s.journalSvc.ReverseEntry(ctx, entry.EntryID, dto.ReverseEntryRequest{Description: description}, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Document voided",
		slog.String("source_type", string(sourceType)),
		slog.String("source_id", req.SourceID),
		slog.String("reversal_id", reversal.EntryID))
	return reversal, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// journalService implements the journal entry store. It owns the draft/posted
// lifecycle; every balance-affecting write funnels through here.
type journalService struct {
	BaseService
	entryRepo   portsrepo.EntryRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
}

// NewJournalService creates a new journal entry service.
func NewJournalService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
) portssvc.JournalSvcFacade {
	return &journalService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates the balance invariant, the referenced accounts, and
// the period gate, then persists a draft. With AutoPost set the draft is
// posted in the same call.
func (s *journalService) CreateEntry(ctx context.Context, input portssvc.NewEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	if err := accounting.ValidateBalanced(input.Lines); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(input.Lines))
	for _, line := range input.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch line accounts: %w", err)
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
	}

	entryDate := domain.DateOnly(input.Date)
	period, err := s.periodRepo.FindPeriodByDate(ctx, entryDate)
	if err != nil {
		return nil, err
	}
	if !period.AllowsPosting() {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   entryDate,
		PeriodID:    period.PeriodID,
		Description: input.Description,
		Reference:   input.Reference,
		SourceType:  input.SourceType,
		SourceID:    input.SourceID,
		Status:      domain.Draft,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	if entry.SourceType == "" {
		entry.SourceType = domain.SourceManual
	}

	lines := make([]domain.JournalEntryLine, len(input.Lines))
	for i, line := range input.Lines {
		lines[i] = line
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entry.EntryID
		lines[i].AuditFields = entry.AuditFields
	}

	if err := s.entryRepo.SaveDraft(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save draft entry", slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}
	entry.Lines = lines
	s.LogInfo(ctx, "Draft entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("source_type", string(entry.SourceType)))

	if !input.AutoPost {
		return &entry, nil
	}
	return s.PostEntry(ctx, entry.EntryID, creatorUserID)
}

// PostEntry makes a draft permanent. The repository re-verifies the balance
// and period-open invariants under the transaction, so a concurrent lock or
// close cannot race past the gate.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	posted, err := s.entryRepo.PostEntry(ctx, entryID, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) ||
			errors.Is(err, apperrors.ErrAlreadyPosted) ||
			errors.Is(err, apperrors.ErrPeriodClosed) ||
			errors.Is(err, apperrors.ErrUnbalancedEntry) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to post entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry: %w", err)
	}
	s.LogInfo(ctx, "Entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

// ReverseEntry creates and posts the mirror of a posted entry. The original
// is never touched beyond the reversed-by link.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	original, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsPosted() {
		return nil, fmt.Errorf("%w: entry %s is still a draft", apperrors.ErrNotPosted, entryID)
	}
	if original.ReversedBy != nil {
		return nil, fmt.Errorf("%w: entry %s already reversed by %s", apperrors.ErrAlreadyReversed, entryID, *original.ReversedBy)
	}
	if original.ReversalOf != nil {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal", apperrors.ErrConflict, entryID)
	}

	reversalDate := domain.DateOnly(time.Now().UTC())
	if req.Date != nil {
		reversalDate = domain.DateOnly(*req.Date)
	}
	period, err := s.periodRepo.FindPeriodByDate(ctx, reversalDate)
	if err != nil {
		return nil, err
	}
	if !period.AllowsPosting() {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Reversal of %s", original.EntryNumber)
	}

	now := time.Now().UTC()
	reversal := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   reversalDate,
		PeriodID:    period.PeriodID,
		Description: description,
		Reference:   original.Reference,
		SourceType:  original.SourceType,
		SourceID:    original.SourceID,
		Status:      domain.Posted,
		ReversalOf:  &original.EntryID,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	lines := accounting.SwapSides(original.Lines)
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = reversal.EntryID
		lines[i].AuditFields = reversal.AuditFields
	}

	created, err := s.entryRepo.ReverseEntry(ctx, original.EntryID, reversal, lines)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyReversed) || errors.Is(err, apperrors.ErrNotPosted) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to reverse entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to reverse entry: %w", err)
	}
	s.LogInfo(ctx, "Entry reversed",
		slog.String("original_id", original.EntryID),
		slog.String("reversal_id", created.EntryID))
	return created, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// GetEntryBySource retrieves the active posting entry of a business document.
func (s *journalService) GetEntryBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a token-paginated page of entry headers.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, nextToken, err := s.entryRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

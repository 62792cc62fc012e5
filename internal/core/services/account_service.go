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
)

// accountService implements the account registry over the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new account after validating the code is free and
// the parent chain contains no cycle.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	accountType := domain.AccountType(req.AccountType)
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if req.ParentAccountID != "" {
		if _, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     accountType,
		Subtype:         req.Subtype,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		OpeningBalance:  req.OpeningBalance,
		IsActive:        true,
		IsSystem:        false,
		AuditFields:     domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateCode) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByCode retrieves a single account by code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts retrieves a page of accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset, includeInactive)
}

// UpdateAccount applies partial updates with the registry's immutability rules:
// system accounts keep their code, and the type is frozen once any journal
// line references the account.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false

	if req.Code != nil && *req.Code != account.Code {
		if account.IsSystem {
			return nil, fmt.Errorf("%w: cannot change code of %s", apperrors.ErrSystemAccountImmutable, account.Code)
		}
		account.Code = *req.Code
		updated = true
	}

	if req.AccountType != nil && domain.AccountType(*req.AccountType) != account.AccountType {
		newType := domain.AccountType(*req.AccountType)
		if !newType.Valid() {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		refs, err := s.accountRepo.CountLinesByAccountID(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to count line references: %w", err)
		}
		if refs > 0 {
			return nil, fmt.Errorf("%w: type change with %d journal lines", apperrors.ErrAccountInUse, refs)
		}
		account.AccountType = newType
		updated = true
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		if *req.ParentAccountID != "" {
			if err := s.checkHierarchy(ctx, accountID, *req.ParentAccountID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = *req.ParentAccountID
		updated = true
	}

	if req.Name != nil && *req.Name != account.Name {
		account.Name = *req.Name
		updated = true
	}
	if req.Subtype != nil && *req.Subtype != account.Subtype {
		account.Subtype = *req.Subtype
		updated = true
	}
	if req.Description != nil && *req.Description != account.Description {
		account.Description = *req.Description
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.Touch(userID, time.Now().UTC())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateCode) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// checkHierarchy walks the proposed parent chain and rejects cycles.
func (s *accountService) checkHierarchy(ctx context.Context, accountID, parentID string) error {
	seen := map[string]struct{}{accountID: {}}
	current := parentID
	for current != "" {
		if _, ok := seen[current]; ok {
			return fmt.Errorf("%w: account %s already appears in the parent chain", apperrors.ErrInvalidHierarchy, current)
		}
		seen[current] = struct{}{}

		parent, err := s.accountRepo.FindAccountByID(ctx, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, current)
			}
			return fmt.Errorf("failed to walk account hierarchy: %w", err)
		}
		current = parent.ParentAccountID
	}
	return nil
}

// DeactivateAccount soft-disables an account that no journal line references.
// An account with posted history must stay active: the trial balance only
// buckets active accounts, so hiding a balance-carrying account would break
// the debit/credit totals.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: cannot deactivate %s", apperrors.ErrSystemAccountImmutable, account.Code)
	}

	refs, err := s.accountRepo.CountLinesByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count line references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d journal lines reference account %s", apperrors.ErrAccountInUse, refs, account.Code)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount removes an account that has never been referenced by journal
// lines; anything with history can only be deactivated.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: cannot delete %s", apperrors.ErrSystemAccountImmutable, account.Code)
	}

	refs, err := s.accountRepo.CountLinesByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count line references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d journal lines reference account %s", apperrors.ErrAccountInUse, refs, account.Code)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("deleted_by", userID))
	return nil
}

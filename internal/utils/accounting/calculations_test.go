package accounting_test

import (
	"testing"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func line(accountID string, debit, credit int64) domain.JournalEntryLine {
	return domain.JournalEntryLine{AccountID: accountID, Debit: debit, Credit: credit}
}

func TestValidateLine(t *testing.T) {
	testCases := []struct {
		name    string
		debit   int64
		credit  int64
		wantErr bool
	}{
		{"debit only", 1000, 0, false},
		{"credit only", 0, 1000, false},
		{"both sides", 1000, 1000, true},
		{"neither side", 0, 0, true},
		{"negative debit", -5, 0, true},
		{"negative credit", 0, -5, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := accounting.ValidateLine(tc.debit, tc.credit)
			if tc.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBalanced(t *testing.T) {
	t.Run("balanced entry passes", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("ar", 110000, 0),
			line("rev", 0, 100000),
			line("tax", 0, 10000),
		}
		assert.NoError(t, accounting.ValidateBalanced(lines))
	})

	t.Run("unbalanced entry fails", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("ar", 110000, 0),
			line("rev", 0, 100000),
		}
		err := accounting.ValidateBalanced(lines)
		assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	})

	t.Run("single line fails", func(t *testing.T) {
		err := accounting.ValidateBalanced([]domain.JournalEntryLine{line("a", 100, 0)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("line with both sides fails before balance check", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", 100, 100),
			line("b", 100, 100),
		}
		err := accounting.ValidateBalanced(lines)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestSignedAmount(t *testing.T) {
	// Debits grow debit-normal accounts and shrink credit-normal ones.
	assert.Equal(t, int64(500), accounting.SignedAmount(domain.Asset, 500, 0))
	assert.Equal(t, int64(-500), accounting.SignedAmount(domain.Asset, 0, 500))
	assert.Equal(t, int64(500), accounting.SignedAmount(domain.Expense, 500, 0))
	assert.Equal(t, int64(-500), accounting.SignedAmount(domain.Revenue, 500, 0))
	assert.Equal(t, int64(500), accounting.SignedAmount(domain.Liability, 0, 500))
	assert.Equal(t, int64(500), accounting.SignedAmount(domain.Equity, 0, 500))
}

func TestBalanceFromSums(t *testing.T) {
	// Debit-normal: opening + debits - credits.
	assert.Equal(t, int64(1500), accounting.BalanceFromSums(domain.Asset, 1000, 700, 200))
	// Credit-normal: opening + credits - debits.
	assert.Equal(t, int64(1500), accounting.BalanceFromSums(domain.Liability, 1000, 200, 700))
}

func TestTrialBuckets(t *testing.T) {
	d, c := accounting.TrialBuckets(domain.Asset, 1000)
	assert.Equal(t, int64(1000), d)
	assert.Zero(t, c)

	// An overdrawn asset shows in the credit column.
	d, c = accounting.TrialBuckets(domain.Asset, -1000)
	assert.Zero(t, d)
	assert.Equal(t, int64(1000), c)

	d, c = accounting.TrialBuckets(domain.Revenue, 1000)
	assert.Zero(t, d)
	assert.Equal(t, int64(1000), c)

	d, c = accounting.TrialBuckets(domain.Revenue, -1000)
	assert.Equal(t, int64(1000), d)
	assert.Zero(t, c)
}

func TestSwapSides(t *testing.T) {
	original := []domain.JournalEntryLine{
		line("cash", 2500, 0),
		line("ar", 0, 2500),
	}
	swapped := accounting.SwapSides(original)

	assert.Equal(t, int64(0), swapped[0].Debit)
	assert.Equal(t, int64(2500), swapped[0].Credit)
	assert.Equal(t, int64(2500), swapped[1].Debit)
	assert.Equal(t, int64(0), swapped[1].Credit)
	// Original untouched.
	assert.Equal(t, int64(2500), original[0].Debit)

	// A swapped balanced set stays balanced.
	assert.NoError(t, accounting.ValidateBalanced(swapped))
}

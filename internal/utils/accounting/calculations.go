package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// ValidateLine enforces the line-level invariant: amounts are nonnegative and
// exactly one of debit/credit is positive.
func ValidateLine(debit, credit int64) error {
	if debit < 0 || credit < 0 {
		return fmt.Errorf("%w: line amounts must be nonnegative", apperrors.ErrValidation)
	}
	if (debit > 0) == (credit > 0) {
		return fmt.Errorf("%w: exactly one of debit or credit must be positive", apperrors.ErrValidation)
	}
	return nil
}

// ValidateBalanced checks the entry-level invariant: at least one line, every
// line valid, and total debits equal to total credits.
func ValidateBalanced(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	var totalDebit, totalCredit int64
	for i, line := range lines {
		if err := ValidateLine(line.Debit, line.Credit); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		totalDebit += line.Debit
		totalCredit += line.Credit
	}

	if totalDebit != totalCredit {
		return fmt.Errorf("%w: debits sum to %d, credits sum to %d",
			apperrors.ErrUnbalancedEntry, totalDebit, totalCredit)
	}
	return nil
}

// LineTotals returns the summed debits and credits of a line set.
func LineTotals(lines []domain.JournalEntryLine) (totalDebit, totalCredit int64) {
	for _, line := range lines {
		totalDebit += line.Debit
		totalCredit += line.Credit
	}
	return totalDebit, totalCredit
}

// SignedAmount nets a single debit/credit pair onto the account's normal side.
// A debit grows a debit-normal balance and shrinks a credit-normal one, and
// vice versa.
func SignedAmount(accountType domain.AccountType, debit, credit int64) int64 {
	if accountType.NormalSide() == domain.DebitNormal {
		return debit - credit
	}
	return credit - debit
}

// BalanceFromSums combines the opening anchor with posted debit/credit totals
// under the account's polarity.
func BalanceFromSums(accountType domain.AccountType, opening, totalDebit, totalCredit int64) int64 {
	return opening + SignedAmount(accountType, totalDebit, totalCredit)
}

// TrialBuckets places a polarity-applied balance into the debit or credit
// column of a trial balance. A positive debit-normal balance lands in the
// debit column; a negative one flips to the credit column, and symmetrically
// for credit-normal accounts.
func TrialBuckets(accountType domain.AccountType, balance int64) (debitColumn, creditColumn int64) {
	if accountType.NormalSide() == domain.DebitNormal {
		if balance >= 0 {
			return balance, 0
		}
		return 0, -balance
	}
	if balance >= 0 {
		return 0, balance
	}
	return -balance, 0
}

// SwapSides mirrors a line set for a reversal entry: every debit becomes a
// credit of the same amount and vice versa.
func SwapSides(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	swapped := make([]domain.JournalEntryLine, len(lines))
	for i, line := range lines {
		swapped[i] = line
		swapped[i].Debit = line.Credit
		swapped[i].Credit = line.Debit
	}
	return swapped
}

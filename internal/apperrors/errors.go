package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger invariant violations. These are surfaced to callers as-is so the
// surrounding document services can distinguish them by kind; none of them is
// ever corrected or retried silently.
var (
	// ErrUnbalancedEntry indicates that the debits and credits of a journal entry do not sum equal.
	ErrUnbalancedEntry = errors.New("journal entry debits and credits are not equal")

	// ErrPeriodClosed indicates that the entry date falls inside a closed or locked fiscal period.
	ErrPeriodClosed = errors.New("fiscal period is closed or locked for posting")

	// ErrPeriodNotFound indicates that no fiscal period covers the entry date.
	ErrPeriodNotFound = fmt.Errorf("no fiscal period covers the given date: %w", ErrNotFound)

	// ErrAlreadyPosted indicates an attempt to post an entry or document that is already posted.
	ErrAlreadyPosted = errors.New("already posted")

	// ErrNotPosted indicates that the operation requires a posted journal entry.
	ErrNotPosted = errors.New("journal entry is not posted")

	// ErrAlreadyReversed indicates that a journal entry already has a reversal linked to it.
	ErrAlreadyReversed = errors.New("journal entry is already reversed")

	// ErrDuplicateCode indicates that an account code is already taken.
	ErrDuplicateCode = fmt.Errorf("account code already exists: %w", ErrDuplicate)

	// ErrInvalidHierarchy indicates that the requested parent assignment would create a cycle.
	ErrInvalidHierarchy = errors.New("account hierarchy would contain a cycle")

	// ErrAccountInUse indicates that an account is referenced by journal lines and cannot be
	// retyped or deleted.
	ErrAccountInUse = errors.New("account is referenced by journal lines")

	// ErrSystemAccountImmutable indicates an attempt to recode or delete a system account.
	ErrSystemAccountImmutable = errors.New("system account cannot be recoded or deleted")

	// ErrPeriodNotReady indicates that the pre-close checklist has blocking items.
	ErrPeriodNotReady = errors.New("fiscal period is not ready to close")

	// ErrOverlappingPeriod indicates that a fiscal period's date range intersects an existing one.
	ErrOverlappingPeriod = errors.New("fiscal period overlaps an existing period")
)

// AppError carries an HTTP-ish status code alongside a message and a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

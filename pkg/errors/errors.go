package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrBorrowerNotFound    = errors.New("borrower not found")
	ErrDuplicateEmail      = errors.New("borrower email already registered")
	ErrInvalidAmount       = errors.New("invalid repayment amount")
	ErrAlreadyApproved     = errors.New("loan already approved")
	ErrAlreadyRejected     = errors.New("loan already rejected")
	ErrAlreadyDisbursed    = errors.New("loan already disbursed")
	ErrNotPending          = errors.New("loan is not in pending status")
	ErrNotApproved         = errors.New("loan is not in approved status")
	ErrNotDisbursed        = errors.New("loan is not in disbursed status")
	ErrEligibilityFailed   = errors.New("loan eligibility validation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error

	// Violations holds the ordered eligibility failures for
	// ErrCodeValidationFailed; empty for every other code.
	Violations []string
}

func (e *BusinessError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s [%s]", e.Code, e.Message, strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeBadInput          = "BAD_INPUT"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapApplicationNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Loan application with ID %s not found", id),
		ErrApplicationNotFound,
	)
}

func WrapDuplicateEmail(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeBadInput,
		fmt.Sprintf("Borrower with email %s already exists", email),
		ErrDuplicateEmail,
	)
}

func WrapBadInput(message string, err error) *BusinessError {
	return NewBusinessError(ErrCodeBadInput, message, err)
}

// WrapInvalidTransition reports an operation attempted from a state that
// disallows it. The sentinel distinguishes "already in target state" from
// "wrong source state" so callers can message precisely.
func WrapInvalidTransition(message string, sentinel error) *BusinessError {
	return NewBusinessError(ErrCodeInvalidTransition, message, sentinel)
}

func WrapValidationFailed(violations []string) *BusinessError {
	return &BusinessError{
		Code:       ErrCodeValidationFailed,
		Message:    "Loan eligibility validation failed",
		Err:        ErrEligibilityFailed,
		Violations: violations,
	}
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Error(t *testing.T) {
	err := NewBusinessError(ErrCodeNotFound, "Loan application with ID 42 not found", ErrApplicationNotFound)

	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestBusinessError_Unwrap(t *testing.T) {
	err := WrapInvalidTransition("loan already approved", ErrAlreadyApproved)

	assert.True(t, errors.Is(err, ErrAlreadyApproved))
	assert.False(t, errors.Is(err, ErrAlreadyRejected))
}

func TestWrapValidationFailed(t *testing.T) {
	violations := []string{"Credit score too low", "Invalid annual income"}
	err := WrapValidationFailed(violations)

	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, violations, err.Violations)
	assert.True(t, errors.Is(err, ErrEligibilityFailed))
	assert.Contains(t, err.Error(), "Credit score too low")
}

func TestWrapDuplicateEmail(t *testing.T) {
	err := WrapDuplicateEmail("abel@example.com")

	assert.Equal(t, ErrCodeBadInput, err.Code)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.Contains(t, err.Message, "abel@example.com")
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause)

	assert.Equal(t, ErrCodeDatabaseError, err.Code)
	assert.True(t, errors.Is(err, cause))
}

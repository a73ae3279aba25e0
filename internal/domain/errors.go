package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business rule violation raised before any request
// leaves the terminal.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidAmountInput   = "INVALID_AMOUNT_INPUT"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeSlipOverdraw         = "SLIP_OVERDRAW"
	ErrCodeOverAllocation       = "OVER_ALLOCATION"
	ErrCodeCurrencyMismatch     = "CURRENCY_MISMATCH"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeUnknownSlip          = "UNKNOWN_SLIP"
)

func NewInvalidAmountInputError(input, reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmountInput,
		Message: fmt.Sprintf("invalid amount %q: %s", input, reason),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidTransitionError(from, to SlipStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition slip from %s to %s", from, to),
	}
}

func NewSlipOverdrawError(slipID string, remaining, requested int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeSlipOverdraw,
		Message: fmt.Sprintf("slip %s has %d remaining, cannot allocate %d", slipID, remaining, requested),
	}
}

func NewOverAllocationError(payment, allocated int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeOverAllocation,
		Message: fmt.Sprintf("allocations total %d exceeds payment amount %d", allocated, payment),
	}
}

func NewCurrencyMismatchError(expected, got string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCurrencyMismatch,
		Message: fmt.Sprintf("currency mismatch: expected %s, got %s", expected, got),
	}
}

func NewUnknownSlipError(slipID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownSlip,
		Message: fmt.Sprintf("slip %s is not among the customer's open slips", slipID),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

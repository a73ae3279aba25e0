package application

import (
	"errors"
	"fmt"
)

// LedgerError is the raw failure reported by the remote ledger service: an
// HTTP status plus the server's own error code and message. It is what the
// HTTP client returns and what the classifier consumes; callers outside the
// client layer should only ever see the classified ErrorRecord.
type LedgerError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func IsLedgerError(err error) (*LedgerError, bool) {
	var ledgerErr *LedgerError
	ok := errors.As(err, &ledgerErr)
	return ledgerErr, ok
}

// ErrorKind is the stable taxonomy every failed call is classified into.
type ErrorKind string

const (
	KindCancelled           ErrorKind = "CANCELLED"
	KindTimeout             ErrorKind = "TIMEOUT_ERROR"
	KindNetwork             ErrorKind = "NETWORK_ERROR"
	KindSessionExpired      ErrorKind = "SESSION_EXPIRED"
	KindUnauthorizedAccess  ErrorKind = "UNAUTHORIZED_ACCESS"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindValidation          ErrorKind = "VALIDATION_ERROR"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindRateLimited         ErrorKind = "RATE_LIMITED"
	KindServerError         ErrorKind = "SERVER_ERROR"
	KindUnknown             ErrorKind = "UNKNOWN_ERROR"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ErrorRecord is the classified form of a failed remote call. It is built
// once by the classifier and never mutated: the message is fixed per kind so
// UI copy stays stable regardless of backend wording.
type ErrorRecord struct {
	Kind         ErrorKind
	Code         string
	Message      string
	Severity     Severity
	Retryable    bool
	RequiresAuth bool

	cause error
}

func (e *ErrorRecord) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the original failure for errors.Is/As checks.
func (e *ErrorRecord) Unwrap() error {
	return e.cause
}

func IsErrorRecord(err error) (*ErrorRecord, bool) {
	var rec *ErrorRecord
	ok := errors.As(err, &rec)
	return rec, ok
}

// IsKind reports whether err is an ErrorRecord of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	if rec, ok := IsErrorRecord(err); ok {
		return rec.Kind == kind
	}
	return false
}

// NewLocalRecord builds an ErrorRecord for a failure the terminal raised
// itself without calling the ledger, like a role check or input rejection.
// Kind semantics (message, severity, retryability) match classified records.
func NewLocalRecord(kind ErrorKind, code string, cause error) *ErrorRecord {
	rec := &ErrorRecord{
		Kind:     kind,
		Code:     code,
		Message:  kindMessages[kind],
		Severity: SeverityWarning,
		cause:    cause,
	}
	switch kind {
	case KindNotFound:
		rec.Severity = SeverityInfo
	case KindSessionExpired:
		rec.RequiresAuth = true
	}
	return rec
}

package application

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Fixed user-facing copy per kind. The raw server message is kept on the
// record's cause chain for logs, never shown to staff.
var kindMessages = map[ErrorKind]string{
	KindCancelled:           "The request was cancelled.",
	KindTimeout:             "The ledger service took too long to respond. Please try again.",
	KindNetwork:             "Could not reach the ledger service. Check the connection and try again.",
	KindSessionExpired:      "Your session has expired. Please sign in again.",
	KindUnauthorizedAccess:  "You do not have permission to perform this action.",
	KindNotFound:            "The requested record was not found.",
	KindValidation:          "The request was rejected. Please review the entered details.",
	KindInsufficientBalance: "The customer's wallet balance is not sufficient for this operation.",
	KindRateLimited:         "Too many requests. Please wait a moment and try again.",
	KindServerError:         "The ledger service reported an internal error. Please try again.",
	KindUnknown:             "Something went wrong. Please try again.",
}

// Server error codes the classifier promotes into domain kinds on HTTP 400.
const (
	serverValidationPrefix  = "VALIDATION_ERROR"
	serverInsufficientFunds = "INSUFFICIENT_WALLET_BALANCE"
)

// Classify maps any failure from a ledger call onto exactly one ErrorRecord.
// First match wins; the fallback is a retryable UNKNOWN_ERROR so transient
// failures we have not seen before still get a second chance.
func Classify(err error) *ErrorRecord {
	if rec, ok := IsErrorRecord(err); ok {
		return rec
	}

	if errors.Is(err, context.Canceled) {
		return newRecord(KindCancelled, "", SeverityInfo, false, false, err)
	}

	if isTimeout(err) {
		return newRecord(KindTimeout, "", SeverityError, true, false, err)
	}

	if ledgerErr, ok := IsLedgerError(err); ok {
		return classifyLedgerError(ledgerErr)
	}

	if isTransportFailure(err) {
		return newRecord(KindNetwork, "", SeverityError, true, false, err)
	}

	return newRecord(KindUnknown, "", SeverityError, true, false, err)
}

func classifyLedgerError(err *LedgerError) *ErrorRecord {
	switch {
	case err.StatusCode == http.StatusUnauthorized:
		return newRecord(KindSessionExpired, err.Code, SeverityWarning, false, true, err)

	case err.StatusCode == http.StatusForbidden:
		return newRecord(KindUnauthorizedAccess, err.Code, SeverityWarning, false, false, err)

	case err.StatusCode == http.StatusNotFound:
		severity := SeverityWarning
		if err.Code == "CUSTOMER_NOT_FOUND" {
			// a miss during customer search is normal flow, not a fault
			severity = SeverityInfo
		}
		return newRecord(KindNotFound, err.Code, severity, false, false, err)

	case err.StatusCode == http.StatusBadRequest:
		if hasServerCode(err, serverInsufficientFunds) {
			return newRecord(KindInsufficientBalance, err.Code, SeverityWarning, false, false, err)
		}
		if hasServerCode(err, serverValidationPrefix) {
			return newRecord(KindValidation, err.Code, SeverityWarning, false, false, err)
		}
		return newRecord(KindUnknown, err.Code, SeverityError, true, false, err)

	case err.StatusCode == http.StatusTooManyRequests:
		return newRecord(KindRateLimited, err.Code, SeverityWarning, true, false, err)

	case err.StatusCode >= http.StatusInternalServerError:
		return newRecord(KindServerError, err.Code, SeverityCritical, true, false, err)
	}

	return newRecord(KindUnknown, err.Code, SeverityError, true, false, err)
}

func newRecord(kind ErrorKind, code string, severity Severity, retryable, requiresAuth bool, cause error) *ErrorRecord {
	return &ErrorRecord{
		Kind:         kind,
		Code:         code,
		Message:      kindMessages[kind],
		Severity:     severity,
		Retryable:    retryable,
		RequiresAuth: requiresAuth,
		cause:        cause,
	}
}

func hasServerCode(err *LedgerError, code string) bool {
	return strings.HasPrefix(err.Code, code) || strings.Contains(err.Message, code)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTransportFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	// http.Client wraps dial and read failures in *url.Error.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	// Sentinel for transport problems the ledger client detects itself,
	// like a response body that cuts off mid-decode.
	return errors.Is(err, ErrTransport)
}

// ErrTransport marks a failure where no usable response was received.
var ErrTransport = errors.New("transport failure")

package application_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantKind     application.ErrorKind
		wantRetry    bool
		wantAuth     bool
		wantSeverity application.Severity
	}{
		{
			name:         "context cancellation",
			err:          context.Canceled,
			wantKind:     application.KindCancelled,
			wantRetry:    false,
			wantSeverity: application.SeverityInfo,
		},
		{
			name:         "context deadline",
			err:          context.DeadlineExceeded,
			wantKind:     application.KindTimeout,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
		{
			name:         "net timeout",
			err:          fmt.Errorf("calling ledger: %w", fakeTimeoutError{}),
			wantKind:     application.KindTimeout,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
		{
			name:         "connection refused",
			err:          &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			wantKind:     application.KindNetwork,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
		{
			name:         "url error from http client",
			err:          &url.Error{Op: "Post", URL: "http://ledger", Err: errors.New("EOF")},
			wantKind:     application.KindNetwork,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
		{
			name:         "truncated response body",
			err:          fmt.Errorf("decoding response: %w", application.ErrTransport),
			wantKind:     application.KindNetwork,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
		{
			name:         "http 401",
			err:          &application.LedgerError{Code: "TOKEN_EXPIRED", StatusCode: 401},
			wantKind:     application.KindSessionExpired,
			wantRetry:    false,
			wantAuth:     true,
			wantSeverity: application.SeverityWarning,
		},
		{
			name:         "http 403",
			err:          &application.LedgerError{Code: "FORBIDDEN", StatusCode: 403},
			wantKind:     application.KindUnauthorizedAccess,
			wantRetry:    false,
			wantSeverity: application.SeverityWarning,
		},
		{
			name:         "http 404 customer",
			err:          &application.LedgerError{Code: "CUSTOMER_NOT_FOUND", StatusCode: 404},
			wantKind:     application.KindNotFound,
			wantRetry:    false,
			wantSeverity: application.SeverityInfo,
		},
		{
			name:         "http 404 slip",
			err:          &application.LedgerError{Code: "SLIP_NOT_FOUND", StatusCode: 404},
			wantKind:     application.KindNotFound,
			wantRetry:    false,
			wantSeverity: application.SeverityWarning,
		},
		{
			name:         "http 400 validation",
			err:          &application.LedgerError{Code: "VALIDATION_ERROR: lines must not be empty", StatusCode: 400},
			wantKind:     application.KindValidation,
			wantRetry:    false,
			wantSeverity: application.SeverityWarning,
		},
		{
			name:         "http 400 insufficient wallet balance",
			err:          &application.LedgerError{Code: "INSUFFICIENT_WALLET_BALANCE", StatusCode: 400},
			wantKind:     application.KindInsufficientBalance,
			wantRetry:    false,
			wantSeverity: application.SeverityWarning,
		},
		{
			name:         "http 400 with unrecognized code",
			err:          &application.LedgerError{Code: "SOMETHING_ELSE", StatusCode: 400},
			wantKind:     application.KindUnknown,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
		{
			name:         "http 429",
			err:          &application.LedgerError{Code: "RATE_LIMITED", StatusCode: 429},
			wantKind:     application.KindRateLimited,
			wantRetry:    true,
			wantSeverity: application.SeverityWarning,
		},
		{
			name:         "http 500",
			err:          &application.LedgerError{Code: "internal_error", StatusCode: 500},
			wantKind:     application.KindServerError,
			wantRetry:    true,
			wantSeverity: application.SeverityCritical,
		},
		{
			name:         "http 503",
			err:          &application.LedgerError{Code: "unavailable", StatusCode: 503},
			wantKind:     application.KindServerError,
			wantRetry:    true,
			wantSeverity: application.SeverityCritical,
		},
		{
			name:         "unrecognized error",
			err:          errors.New("something odd"),
			wantKind:     application.KindUnknown,
			wantRetry:    true,
			wantSeverity: application.SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := application.Classify(tt.err)

			require.NotNil(t, rec)
			assert.Equal(t, tt.wantKind, rec.Kind)
			assert.Equal(t, tt.wantRetry, rec.Retryable)
			assert.Equal(t, tt.wantAuth, rec.RequiresAuth)
			assert.Equal(t, tt.wantSeverity, rec.Severity)
			assert.NotEmpty(t, rec.Message, "every classified error needs user-facing copy")
		})
	}
}

func TestClassifyMessageIndependentOfServerText(t *testing.T) {
	a := application.Classify(&application.LedgerError{Code: "internal_error", Message: "stack trace A", StatusCode: 500})
	b := application.Classify(&application.LedgerError{Code: "internal_error", Message: "completely different", StatusCode: 500})
	assert.Equal(t, a.Message, b.Message)
}

func TestClassifyPassesThroughRecords(t *testing.T) {
	first := application.Classify(&application.LedgerError{StatusCode: 500})
	again := application.Classify(first)
	assert.Same(t, first, again)
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := &application.LedgerError{Code: "internal_error", StatusCode: 500}
	rec := application.Classify(cause)

	unwrapped, ok := application.IsLedgerError(rec)
	require.True(t, ok)
	assert.Equal(t, cause, unwrapped)
	assert.True(t, application.IsKind(rec, application.KindServerError))
}

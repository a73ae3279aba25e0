package ledger

import (
	"context"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/config"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// RetryLedgerClient decorates a LedgerAPI with the retry executor. Every
// operation, reads and writes alike, goes through the same bounded backoff;
// writes are safe to re-send because the idempotency key is fixed before the
// first attempt and repeated on every retry of the same logical call.
type RetryLedgerClient struct {
	inner      application.LedgerAPI
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryLedgerClient(inner application.LedgerAPI, cfg config.RetryConfig) application.LedgerAPI {
	return &RetryLedgerClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: cfg.MaxRetries,
	}
}

func (r *RetryLedgerClient) CreateCreditSlip(ctx context.Context, req application.CreateSlipRequest, idempotencyKey string) (*application.CreateSlipResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.CreateSlipResponse, error) {
		return r.inner.CreateCreditSlip(ctx, req, idempotencyKey)
	})
}

func (r *RetryLedgerClient) ProcessPayment(ctx context.Context, req application.ProcessPaymentRequest, idempotencyKey string) (*application.ProcessPaymentResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.ProcessPaymentResponse, error) {
		return r.inner.ProcessPayment(ctx, req, idempotencyKey)
	})
}

func (r *RetryLedgerClient) ApplyWalletToSlip(ctx context.Context, req application.ApplyWalletRequest, idempotencyKey string) (*application.ApplyWalletResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.ApplyWalletResponse, error) {
		return r.inner.ApplyWalletToSlip(ctx, req, idempotencyKey)
	})
}

func (r *RetryLedgerClient) StoreChange(ctx context.Context, req application.StoreChangeRequest, idempotencyKey string) (*application.StoreChangeResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.StoreChangeResponse, error) {
		return r.inner.StoreChange(ctx, req, idempotencyKey)
	})
}

func (r *RetryLedgerClient) FetchBalance(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error) {
	return retry(r, ctx, func(ctx context.Context) (*domain.WalletBalance, error) {
		return r.inner.FetchBalance(ctx, customerID, currency)
	})
}

func (r *RetryLedgerClient) FetchOpenSlips(ctx context.Context, customerID, currency string, page application.PageRequest) (*application.SlipListResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.SlipListResponse, error) {
		return r.inner.FetchOpenSlips(ctx, customerID, currency, page)
	})
}

func (r *RetryLedgerClient) FetchTransactionHistory(ctx context.Context, customerID string, page application.PageRequest) (*application.TransactionListResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.TransactionListResponse, error) {
		return r.inner.FetchTransactionHistory(ctx, customerID, page)
	})
}

func (r *RetryLedgerClient) FetchAuditTrail(ctx context.Context, customerID string, page application.PageRequest) (*application.AuditListResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.AuditListResponse, error) {
		return r.inner.FetchAuditTrail(ctx, customerID, page)
	})
}

func (r *RetryLedgerClient) SearchCustomers(ctx context.Context, query string, page application.PageRequest) (*application.CustomerListResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.CustomerListResponse, error) {
		return r.inner.SearchCustomers(ctx, query, page)
	})
}

func (r *RetryLedgerClient) GetCustomer(ctx context.Context, customerID string) (*application.Customer, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.Customer, error) {
		return r.inner.GetCustomer(ctx, customerID)
	})
}

func (r *RetryLedgerClient) ListProducts(ctx context.Context, page application.PageRequest) (*application.ProductListResponse, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.ProductListResponse, error) {
		return r.inner.ListProducts(ctx, page)
	})
}

func retry[T any](r *RetryLedgerClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	return application.ExecuteWithRetry(ctx, operation, r.maxRetries, r.baseDelay)
}

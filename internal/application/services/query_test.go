package services_test

import (
	"context"
	"testing"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/application/services"
	"github.com/ledgerpos/credit-terminal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manager = application.StaffContext{StaffID: "staff-1", Role: application.RoleManager}

func TestQueryService_Balance(t *testing.T) {
	t.Run("returns the wallet balance", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		ledger.FetchBalanceFn = func(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error) {
			return &domain.WalletBalance{
				CustomerID:       customerID,
				Currency:         currency,
				WalletCents:      12_000,
				OutstandingCents: 40_000,
				OpenSlipsCount:   2,
			}, nil
		}

		svc := services.NewQueryService(ledger, testLogger())
		balance, err := svc.Balance(context.Background(), clerk, "cust-1", "RWF")

		require.NoError(t, err)
		assert.Equal(t, int64(12_000), balance.WalletCents)
		assert.Equal(t, int64(-28_000), balance.NetPositionCents())
	})

	t.Run("maps an unknown customer to a not-found record", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		ledger.FetchBalanceFn = func(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error) {
			return nil, &application.LedgerError{Code: "CUSTOMER_NOT_FOUND", StatusCode: 404}
		}

		svc := services.NewQueryService(ledger, testLogger())
		_, err := svc.Balance(context.Background(), clerk, "ghost", "RWF")

		require.Error(t, err)
		record, ok := application.IsErrorRecord(err)
		require.True(t, ok)
		assert.Equal(t, application.KindNotFound, record.Kind)
		assert.Equal(t, application.SeverityInfo, record.Severity)
	})

	t.Run("requires a customer ID", func(t *testing.T) {
		svc := services.NewQueryService(services.NewMockLedgerAPI(), testLogger())
		_, err := svc.Balance(context.Background(), clerk, "", "RWF")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})
}

func TestQueryService_AuditTrail(t *testing.T) {
	t.Run("allows a manager through", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		ledger.FetchAuditTrailFn = func(ctx context.Context, customerID string, page application.PageRequest) (*application.AuditListResponse, error) {
			return &application.AuditListResponse{
				Entries: []application.AuditEntry{{ID: "audit-1", Action: "payment_processed"}},
				Count:   1,
			}, nil
		}

		svc := services.NewQueryService(ledger, testLogger())
		list, err := svc.AuditTrail(context.Background(), manager, "cust-1", application.PageRequest{})

		require.NoError(t, err)
		assert.Equal(t, 1, list.Count)
	})

	t.Run("refuses a clerk before any ledger call", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		svc := services.NewQueryService(ledger, testLogger())

		_, err := svc.AuditTrail(context.Background(), clerk, "cust-1", application.PageRequest{})

		require.Error(t, err)
		record, ok := application.IsErrorRecord(err)
		require.True(t, ok)
		assert.Equal(t, application.KindUnauthorizedAccess, record.Kind)
		assert.Equal(t, "AUDIT_ROLE_REQUIRED", record.Code)
		assert.False(t, record.Retryable)
		assert.Equal(t, 0, ledger.Calls("FetchAuditTrail"))
	})
}

func TestQueryService_SessionHandling(t *testing.T) {
	t.Run("a 401 surfaces as session-expired and requires auth", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		ledger.SearchCustomersFn = func(ctx context.Context, query string, page application.PageRequest) (*application.CustomerListResponse, error) {
			return nil, &application.LedgerError{Code: "TOKEN_EXPIRED", StatusCode: 401}
		}

		svc := services.NewQueryService(ledger, testLogger())
		_, err := svc.SearchCustomers(context.Background(), clerk, "mug", application.PageRequest{})

		require.Error(t, err)
		record, ok := application.IsErrorRecord(err)
		require.True(t, ok)
		assert.Equal(t, application.KindSessionExpired, record.Kind)
		assert.True(t, record.RequiresAuth)
	})
}

func TestQueryService_Reads(t *testing.T) {
	t.Run("open slips pass paging through", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		var gotPage application.PageRequest
		ledger.FetchOpenSlipsFn = func(ctx context.Context, customerID, currency string, page application.PageRequest) (*application.SlipListResponse, error) {
			gotPage = page
			return &application.SlipListResponse{}, nil
		}

		svc := services.NewQueryService(ledger, testLogger())
		_, err := svc.OpenSlips(context.Background(), clerk, "cust-1", "RWF", application.PageRequest{Page: 3, PerPage: 25})

		require.NoError(t, err)
		assert.Equal(t, 3, gotPage.Page)
		assert.Equal(t, 25, gotPage.PerPage)
	})

	t.Run("transaction history classifies server failures", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		ledger.FetchTransactionHistoryFn = func(ctx context.Context, customerID string, page application.PageRequest) (*application.TransactionListResponse, error) {
			return nil, &application.LedgerError{Code: "INTERNAL", StatusCode: 503}
		}

		svc := services.NewQueryService(ledger, testLogger())
		_, err := svc.TransactionHistory(context.Background(), clerk, "cust-1", application.PageRequest{})

		require.Error(t, err)
		record, ok := application.IsErrorRecord(err)
		require.True(t, ok)
		assert.Equal(t, application.KindServerError, record.Kind)
		assert.True(t, record.Retryable)
	})

	t.Run("customer and product lookups delegate", func(t *testing.T) {
		ledger := services.NewMockLedgerAPI()
		ledger.GetCustomerFn = func(ctx context.Context, customerID string) (*application.Customer, error) {
			return &application.Customer{ID: customerID, Name: "Chantal U."}, nil
		}
		ledger.ListProductsFn = func(ctx context.Context, page application.PageRequest) (*application.ProductListResponse, error) {
			return &application.ProductListResponse{
				Products: []application.Product{{ID: "item-1", Name: "Cement 50kg"}},
				Count:    1,
			}, nil
		}

		svc := services.NewQueryService(ledger, testLogger())

		customer, err := svc.Customer(context.Background(), clerk, "cust-1")
		require.NoError(t, err)
		assert.Equal(t, "Chantal U.", customer.Name)

		products, err := svc.Products(context.Background(), clerk, application.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, products.Count)
	})
}

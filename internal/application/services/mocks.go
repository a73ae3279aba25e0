package services

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// MockLedgerAPI is a function-field test double for the ledger port. Fields
// left nil return zero values so tests only wire what they assert on.
type MockLedgerAPI struct {
	mu    sync.Mutex
	calls map[string]int

	CreateCreditSlipFn        func(ctx context.Context, req application.CreateSlipRequest, idempotencyKey string) (*application.CreateSlipResponse, error)
	ProcessPaymentFn          func(ctx context.Context, req application.ProcessPaymentRequest, idempotencyKey string) (*application.ProcessPaymentResponse, error)
	ApplyWalletToSlipFn       func(ctx context.Context, req application.ApplyWalletRequest, idempotencyKey string) (*application.ApplyWalletResponse, error)
	StoreChangeFn             func(ctx context.Context, req application.StoreChangeRequest, idempotencyKey string) (*application.StoreChangeResponse, error)
	FetchBalanceFn            func(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error)
	FetchOpenSlipsFn          func(ctx context.Context, customerID, currency string, page application.PageRequest) (*application.SlipListResponse, error)
	FetchTransactionHistoryFn func(ctx context.Context, customerID string, page application.PageRequest) (*application.TransactionListResponse, error)
	FetchAuditTrailFn         func(ctx context.Context, customerID string, page application.PageRequest) (*application.AuditListResponse, error)
	SearchCustomersFn         func(ctx context.Context, query string, page application.PageRequest) (*application.CustomerListResponse, error)
	GetCustomerFn             func(ctx context.Context, customerID string) (*application.Customer, error)
	ListProductsFn            func(ctx context.Context, page application.PageRequest) (*application.ProductListResponse, error)
}

func NewMockLedgerAPI() *MockLedgerAPI {
	return &MockLedgerAPI{calls: make(map[string]int)}
}

func (m *MockLedgerAPI) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockLedgerAPI) count(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
}

func (m *MockLedgerAPI) CreateCreditSlip(ctx context.Context, req application.CreateSlipRequest, idempotencyKey string) (*application.CreateSlipResponse, error) {
	m.count("CreateCreditSlip")
	if m.CreateCreditSlipFn != nil {
		return m.CreateCreditSlipFn(ctx, req, idempotencyKey)
	}
	return &application.CreateSlipResponse{}, nil
}

func (m *MockLedgerAPI) ProcessPayment(ctx context.Context, req application.ProcessPaymentRequest, idempotencyKey string) (*application.ProcessPaymentResponse, error) {
	m.count("ProcessPayment")
	if m.ProcessPaymentFn != nil {
		return m.ProcessPaymentFn(ctx, req, idempotencyKey)
	}
	return &application.ProcessPaymentResponse{}, nil
}

func (m *MockLedgerAPI) ApplyWalletToSlip(ctx context.Context, req application.ApplyWalletRequest, idempotencyKey string) (*application.ApplyWalletResponse, error) {
	m.count("ApplyWalletToSlip")
	if m.ApplyWalletToSlipFn != nil {
		return m.ApplyWalletToSlipFn(ctx, req, idempotencyKey)
	}
	return &application.ApplyWalletResponse{}, nil
}

func (m *MockLedgerAPI) StoreChange(ctx context.Context, req application.StoreChangeRequest, idempotencyKey string) (*application.StoreChangeResponse, error) {
	m.count("StoreChange")
	if m.StoreChangeFn != nil {
		return m.StoreChangeFn(ctx, req, idempotencyKey)
	}
	return &application.StoreChangeResponse{}, nil
}

func (m *MockLedgerAPI) FetchBalance(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error) {
	m.count("FetchBalance")
	if m.FetchBalanceFn != nil {
		return m.FetchBalanceFn(ctx, customerID, currency)
	}
	return &domain.WalletBalance{}, nil
}

func (m *MockLedgerAPI) FetchOpenSlips(ctx context.Context, customerID, currency string, page application.PageRequest) (*application.SlipListResponse, error) {
	m.count("FetchOpenSlips")
	if m.FetchOpenSlipsFn != nil {
		return m.FetchOpenSlipsFn(ctx, customerID, currency, page)
	}
	return &application.SlipListResponse{}, nil
}

func (m *MockLedgerAPI) FetchTransactionHistory(ctx context.Context, customerID string, page application.PageRequest) (*application.TransactionListResponse, error) {
	m.count("FetchTransactionHistory")
	if m.FetchTransactionHistoryFn != nil {
		return m.FetchTransactionHistoryFn(ctx, customerID, page)
	}
	return &application.TransactionListResponse{}, nil
}

func (m *MockLedgerAPI) FetchAuditTrail(ctx context.Context, customerID string, page application.PageRequest) (*application.AuditListResponse, error) {
	m.count("FetchAuditTrail")
	if m.FetchAuditTrailFn != nil {
		return m.FetchAuditTrailFn(ctx, customerID, page)
	}
	return &application.AuditListResponse{}, nil
}

func (m *MockLedgerAPI) SearchCustomers(ctx context.Context, query string, page application.PageRequest) (*application.CustomerListResponse, error) {
	m.count("SearchCustomers")
	if m.SearchCustomersFn != nil {
		return m.SearchCustomersFn(ctx, query, page)
	}
	return &application.CustomerListResponse{}, nil
}

func (m *MockLedgerAPI) GetCustomer(ctx context.Context, customerID string) (*application.Customer, error) {
	m.count("GetCustomer")
	if m.GetCustomerFn != nil {
		return m.GetCustomerFn(ctx, customerID)
	}
	return &application.Customer{}, nil
}

func (m *MockLedgerAPI) ListProducts(ctx context.Context, page application.PageRequest) (*application.ProductListResponse, error) {
	m.count("ListProducts")
	if m.ListProductsFn != nil {
		return m.ListProductsFn(ctx, page)
	}
	return &application.ProductListResponse{}, nil
}

// MockJournal keeps submissions in memory.
type MockJournal struct {
	mu      sync.Mutex
	entries map[string]*application.SubmissionEntry

	RecordFn func(ctx context.Context, entry application.SubmissionEntry) error
}

func NewMockJournal() *MockJournal {
	return &MockJournal{entries: make(map[string]*application.SubmissionEntry)}
}

func (m *MockJournal) Record(ctx context.Context, entry application.SubmissionEntry) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := entry
	m.entries[entry.Key] = &copied
	return nil
}

func (m *MockJournal) MarkSucceeded(ctx context.Context, key string, responsePayload []byte) error {
	return m.setStatus(key, application.SubmissionSucceeded, "")
}

func (m *MockJournal) MarkFailed(ctx context.Context, key string, errorCode string) error {
	return m.setStatus(key, application.SubmissionFailed, errorCode)
}

func (m *MockJournal) MarkUnknown(ctx context.Context, key string, reason string) error {
	return m.setStatus(key, application.SubmissionUnknown, reason)
}

func (m *MockJournal) setStatus(key string, status application.SubmissionStatus, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	now := time.Now()
	entry.Status = status
	entry.ErrorCode = code
	entry.ResolvedAt = &now
	return nil
}

func (m *MockJournal) FindByKey(ctx context.Context, key string) (*application.SubmissionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, nil
}

func (m *MockJournal) MarkStalePendingUnknown(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	swept := 0
	for _, entry := range m.entries {
		if swept == limit {
			break
		}
		if entry.Status == application.SubmissionPending && entry.CreatedAt.Before(cutoff) {
			now := time.Now()
			entry.Status = application.SubmissionUnknown
			entry.ErrorCode = "STALE_PENDING"
			entry.ResolvedAt = &now
			swept++
		}
	}
	return swept, nil
}

// Entries returns a snapshot of everything journaled so far.
func (m *MockJournal) Entries() []application.SubmissionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]application.SubmissionEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out
}

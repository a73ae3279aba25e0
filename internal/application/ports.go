package application

import (
	"context"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// LedgerAPI is the port for the remote ledger service. All money fields are
// integer cents. Write operations take a client-generated idempotency key so
// the server can deduplicate retried submissions.
type LedgerAPI interface {
	CreateCreditSlip(ctx context.Context, req CreateSlipRequest, idempotencyKey string) (*CreateSlipResponse, error)
	ProcessPayment(ctx context.Context, req ProcessPaymentRequest, idempotencyKey string) (*ProcessPaymentResponse, error)
	ApplyWalletToSlip(ctx context.Context, req ApplyWalletRequest, idempotencyKey string) (*ApplyWalletResponse, error)
	StoreChange(ctx context.Context, req StoreChangeRequest, idempotencyKey string) (*StoreChangeResponse, error)

	FetchBalance(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error)
	FetchOpenSlips(ctx context.Context, customerID, currency string, page PageRequest) (*SlipListResponse, error)
	FetchTransactionHistory(ctx context.Context, customerID string, page PageRequest) (*TransactionListResponse, error)
	FetchAuditTrail(ctx context.Context, customerID string, page PageRequest) (*AuditListResponse, error)

	SearchCustomers(ctx context.Context, query string, page PageRequest) (*CustomerListResponse, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	ListProducts(ctx context.Context, page PageRequest) (*ProductListResponse, error)
}

type SlipLineRequest struct {
	ItemID         string `json:"item_id"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type CreateSlipRequest struct {
	CustomerID    string            `json:"customer_id"`
	StoreID       string            `json:"store_id"`
	Currency      string            `json:"currency"`
	Lines         []SlipLineRequest `json:"lines"`
	TaxCents      int64             `json:"tax_cents"`
	DiscountCents int64             `json:"discount_cents"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

type CreateSlipResponse struct {
	SlipID          string `json:"slip_id"`
	SlipNumber      string `json:"slip_number"`
	GrandTotalCents int64  `json:"grand_total_cents"`
}

// AllocationRequest mirrors one entry of a payment's allocation list: either
// a slip target (Type "slip", SlipID set) or the wallet (Type "wallet").
type AllocationRequest struct {
	Type         string `json:"type"`
	SlipID       string `json:"slip_id,omitempty"`
	AppliedCents int64  `json:"applied_cents"`
}

const (
	AllocationTypeSlip   = "slip"
	AllocationTypeWallet = "wallet"
)

type ProcessPaymentRequest struct {
	CustomerID  string              `json:"customer_id"`
	StoreID     string              `json:"store_id"`
	Currency    string              `json:"currency"`
	Method      string              `json:"method"`
	AmountCents int64               `json:"amount_cents"`
	Allocations []AllocationRequest `json:"allocations"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

type ProcessPaymentResponse struct {
	PaymentID         string `json:"payment_id"`
	AppliedTotalCents int64  `json:"applied_total"`
	WalletTopupCents  int64  `json:"wallet_topup"`
}

type ApplyWalletRequest struct {
	SlipID     string `json:"slip_id"`
	CustomerID string `json:"customer_id"`
	Currency   string `json:"currency"`
}

type ApplyWalletResponse struct {
	AppliedCents       int64             `json:"applied_cents"`
	SlipStatus         domain.SlipStatus `json:"slip_status"`
	RemainingSlipCents int64             `json:"remaining_slip_balance"`
}

type StoreChangeRequest struct {
	CustomerID  string `json:"customer_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type StoreChangeResponse struct {
	WalletAddedCents int64 `json:"wallet_added"`
}

// PageRequest selects one page of a list operation. Zero values fall back to
// the server's defaults.
type PageRequest struct {
	Page    int
	PerPage int
}

// Pagination is the envelope every paginated response carries.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type SlipListResponse struct {
	Slips      []domain.CreditSlip `json:"slips"`
	Count      int                 `json:"count"`
	Pagination Pagination          `json:"pagination"`
}

type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Method      string    `json:"method"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Reference   string    `json:"reference"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type TransactionListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Count        int           `json:"count"`
	Pagination   Pagination    `json:"pagination"`
}

type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AuditListResponse struct {
	Entries    []AuditEntry `json:"entries"`
	Count      int          `json:"count"`
	Pagination Pagination   `json:"pagination"`
}

type Customer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	AccountStatus string `json:"account_status"`
}

type CustomerListResponse struct {
	Customers []Customer `json:"customers"`
	Count     int        `json:"count"`
}

type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Currency       string `json:"currency"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// StaffContext identifies who is operating the terminal. It is passed
// explicitly into every service call; nothing reads staff identity from
// ambient state.
type StaffContext struct {
	StaffID string
	Role    string
}

const (
	RoleClerk   = "clerk"
	RoleManager = "manager"
)

func (s StaffContext) CanViewAuditTrail() bool {
	return s.Role == RoleManager
}

// SubmissionStatus tracks a journaled write's lifecycle.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "PENDING"
	SubmissionSucceeded SubmissionStatus = "SUCCEEDED"
	SubmissionFailed    SubmissionStatus = "FAILED"
	SubmissionUnknown   SubmissionStatus = "UNKNOWN"
)

// SubmissionEntry is one journaled write: the idempotency key it was sent
// under, what operation it was, and how it resolved.
type SubmissionEntry struct {
	Key         string
	Operation   string
	CustomerID  string
	StaffID     string
	RequestHash string
	Status      SubmissionStatus
	ErrorCode   string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// SubmissionJournal is the port for the local write-submission record. It is
// the terminal's own data, not ledger state: it exists so a write retried or
// interrupted mid-flight can be reconciled against the ledger afterwards.
type SubmissionJournal interface {
	Record(ctx context.Context, entry SubmissionEntry) error
	MarkSucceeded(ctx context.Context, key string, responsePayload []byte) error
	MarkFailed(ctx context.Context, key string, errorCode string) error
	MarkUnknown(ctx context.Context, key string, reason string) error
	FindByKey(ctx context.Context, key string) (*SubmissionEntry, error)
	MarkStalePendingUnknown(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

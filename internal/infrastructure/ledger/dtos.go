package ledger

import (
	"encoding/json"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// The ledger service grew by accretion and different endpoints name the same
// field differently (wallet_cents vs wallet_balance_cents, slip_id vs id).
// Everything is folded into one canonical shape here; inconsistent upstream
// names must not leak past this package.

type errorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func firstInt64(candidates ...*int64) int64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

func firstString(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

type balanceEnvelope struct {
	Balance balanceDTO `json:"balance"`
}

type balanceDTO struct {
	CustomerID     string
	Currency       string
	WalletCents    int64
	Outstanding    int64
	OpenSlipsCount int
	AccountStatus  string
}

func (d *balanceDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		CustomerID         string `json:"customer_id"`
		Currency           string `json:"currency"`
		WalletCents        *int64 `json:"wallet_cents"`
		WalletBalanceCents *int64 `json:"wallet_balance_cents"`
		Balance            *int64 `json:"balance"`
		OutstandingCents   *int64 `json:"outstanding_cents"`
		Outstanding        *int64 `json:"outstanding"`
		OpenSlipsCount     int    `json:"open_slips_count"`
		AccountStatus      string `json:"account_status"`
		Status             string `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.CustomerID = raw.CustomerID
	d.Currency = raw.Currency
	d.WalletCents = firstInt64(raw.WalletCents, raw.WalletBalanceCents, raw.Balance)
	d.Outstanding = firstInt64(raw.OutstandingCents, raw.Outstanding)
	d.OpenSlipsCount = raw.OpenSlipsCount
	d.AccountStatus = firstString(raw.AccountStatus, raw.Status)
	return nil
}

func (d balanceDTO) toDomain() *domain.WalletBalance {
	return &domain.WalletBalance{
		CustomerID:       d.CustomerID,
		Currency:         d.Currency,
		WalletCents:      d.WalletCents,
		OutstandingCents: d.Outstanding,
		OpenSlipsCount:   d.OpenSlipsCount,
		AccountStatus:    d.AccountStatus,
	}
}

type slipDTO struct {
	ID         string
	SlipNumber string
	CustomerID string
	Currency   string
	Status     string
	Subtotal   int64
	Tax        int64
	Discount   int64
	GrandTotal int64
	Paid       int64
	Remaining  int64
	CreatedAt  time.Time
}

func (d *slipDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		SlipID          string    `json:"slip_id"`
		ID              string    `json:"id"`
		SlipNumber      string    `json:"slip_number"`
		Number          string    `json:"number"`
		CustomerID      string    `json:"customer_id"`
		Currency        string    `json:"currency"`
		Status          string    `json:"status"`
		SubtotalCents   *int64    `json:"subtotal_cents"`
		Subtotal        *int64    `json:"subtotal"`
		TaxCents        *int64    `json:"tax_cents"`
		Tax             *int64    `json:"tax"`
		DiscountCents   *int64    `json:"discount_cents"`
		Discount        *int64    `json:"discount"`
		GrandTotalCents *int64    `json:"grand_total_cents"`
		GrandTotal      *int64    `json:"grand_total"`
		PaidCents       *int64    `json:"paid_cents"`
		Paid            *int64    `json:"paid"`
		RemainingCents  *int64    `json:"remaining_cents"`
		Remaining       *int64    `json:"remaining"`
		BalanceDue      *int64    `json:"balance_due_cents"`
		CreatedAt       time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.ID = firstString(raw.SlipID, raw.ID)
	d.SlipNumber = firstString(raw.SlipNumber, raw.Number)
	d.CustomerID = raw.CustomerID
	d.Currency = raw.Currency
	d.Status = raw.Status
	d.Subtotal = firstInt64(raw.SubtotalCents, raw.Subtotal)
	d.Tax = firstInt64(raw.TaxCents, raw.Tax)
	d.Discount = firstInt64(raw.DiscountCents, raw.Discount)
	d.GrandTotal = firstInt64(raw.GrandTotalCents, raw.GrandTotal)
	d.Paid = firstInt64(raw.PaidCents, raw.Paid)
	d.Remaining = firstInt64(raw.RemainingCents, raw.Remaining, raw.BalanceDue)
	d.CreatedAt = raw.CreatedAt
	return nil
}

func (d slipDTO) toDomain() domain.CreditSlip {
	return domain.CreditSlip{
		ID:         d.ID,
		SlipNumber: d.SlipNumber,
		CustomerID: d.CustomerID,
		Currency:   d.Currency,
		Status:     domain.SlipStatus(d.Status),
		Totals: domain.SlipTotals{
			Subtotal:   d.Subtotal,
			Tax:        d.Tax,
			Discount:   d.Discount,
			GrandTotal: d.GrandTotal,
			Paid:       d.Paid,
			Remaining:  d.Remaining,
		},
		CreatedAt: d.CreatedAt,
	}
}

type paginationDTO struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalCount int   `json:"total_count"`
	HasNext    *bool `json:"has_next"`
	HasPrev    *bool `json:"has_prev"`
}

// toPort fills in the derived pagination fields some list endpoints omit.
func (p paginationDTO) toPort(itemsOnPage int) application.Pagination {
	out := application.Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	}
	if out.Page == 0 {
		out.Page = 1
	}
	if out.TotalPages == 0 {
		if p.TotalCount > 0 && p.PerPage > 0 {
			out.TotalPages = (p.TotalCount + p.PerPage - 1) / p.PerPage
		} else if itemsOnPage > 0 {
			out.TotalPages = out.Page
		}
	}
	if p.HasNext != nil {
		out.HasNext = *p.HasNext
	} else {
		out.HasNext = out.Page < out.TotalPages
	}
	if p.HasPrev != nil {
		out.HasPrev = *p.HasPrev
	} else {
		out.HasPrev = out.Page > 1
	}
	return out
}

type slipListDTO struct {
	Slips      []slipDTO     `json:"slips"`
	Items      []slipDTO     `json:"items"`
	Count      int           `json:"count"`
	Pagination paginationDTO `json:"pagination"`
}

func (d slipListDTO) toPort() *application.SlipListResponse {
	rows := d.Slips
	if len(rows) == 0 {
		rows = d.Items
	}
	out := &application.SlipListResponse{
		Slips: make([]domain.CreditSlip, 0, len(rows)),
		Count: d.Count,
	}
	for _, row := range rows {
		out.Slips = append(out.Slips, row.toDomain())
	}
	if out.Count == 0 {
		out.Count = len(out.Slips)
	}
	out.Pagination = d.Pagination.toPort(len(out.Slips))
	return out
}

type transactionDTO struct {
	ID          string
	Type        string
	Method      string
	AmountCents int64
	Currency    string
	Reference   string
	OccurredAt  time.Time
}

func (d *transactionDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string    `json:"id"`
		TxnID       string    `json:"txn_id"`
		Type        string    `json:"type"`
		TxnType     string    `json:"txn_type"`
		Method      string    `json:"method"`
		AmountCents *int64    `json:"amount_cents"`
		Amount      *int64    `json:"amount"`
		Currency    string    `json:"currency"`
		Reference   string    `json:"reference"`
		OccurredAt  time.Time `json:"occurred_at"`
		CreatedAt   time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.ID = firstString(raw.ID, raw.TxnID)
	d.Type = firstString(raw.Type, raw.TxnType)
	d.Method = raw.Method
	d.AmountCents = firstInt64(raw.AmountCents, raw.Amount)
	d.Currency = raw.Currency
	d.Reference = raw.Reference
	d.OccurredAt = raw.OccurredAt
	if d.OccurredAt.IsZero() {
		d.OccurredAt = raw.CreatedAt
	}
	return nil
}

type transactionListDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Items        []transactionDTO `json:"items"`
	Count        int              `json:"count"`
	Pagination   paginationDTO    `json:"pagination"`
}

func (d transactionListDTO) toPort() *application.TransactionListResponse {
	rows := d.Transactions
	if len(rows) == 0 {
		rows = d.Items
	}
	out := &application.TransactionListResponse{
		Transactions: make([]application.Transaction, 0, len(rows)),
		Count:        d.Count,
	}
	for _, row := range rows {
		out.Transactions = append(out.Transactions, application.Transaction{
			ID:          row.ID,
			Type:        row.Type,
			Method:      row.Method,
			AmountCents: row.AmountCents,
			Currency:    row.Currency,
			Reference:   row.Reference,
			OccurredAt:  row.OccurredAt,
		})
	}
	if out.Count == 0 {
		out.Count = len(out.Transactions)
	}
	out.Pagination = d.Pagination.toPort(len(out.Transactions))
	return out
}

type auditListDTO struct {
	Entries    []application.AuditEntry `json:"entries"`
	Count      int                      `json:"count"`
	Pagination paginationDTO            `json:"pagination"`
}

func (d auditListDTO) toPort() *application.AuditListResponse {
	out := &application.AuditListResponse{
		Entries: d.Entries,
		Count:   d.Count,
	}
	if out.Entries == nil {
		out.Entries = []application.AuditEntry{}
	}
	if out.Count == 0 {
		out.Count = len(out.Entries)
	}
	out.Pagination = d.Pagination.toPort(len(out.Entries))
	return out
}

type customerListDTO struct {
	Customers []application.Customer `json:"customers"`
	Count     int                    `json:"count"`
}

func (d customerListDTO) toPort() *application.CustomerListResponse {
	out := &application.CustomerListResponse{Customers: d.Customers, Count: d.Count}
	if out.Customers == nil {
		out.Customers = []application.Customer{}
	}
	if out.Count == 0 {
		out.Count = len(out.Customers)
	}
	return out
}

type productListDTO struct {
	Products []application.Product `json:"products"`
	Count    int                   `json:"count"`
}

func (d productListDTO) toPort() *application.ProductListResponse {
	out := &application.ProductListResponse{Products: d.Products, Count: d.Count}
	if out.Products == nil {
		out.Products = []application.Product{}
	}
	if out.Count == 0 {
		out.Count = len(out.Products)
	}
	return out
}

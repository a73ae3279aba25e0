package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// openSlipsPageSize bounds how many open slips one allocation considers. A
// retail customer with more than this many open slips is a data problem, not
// a paging problem.
const openSlipsPageSize = 100

// PaymentService turns an incoming payment into a ledger submission: it
// fetches the customer's open slips, runs the allocation engine (optionally
// with clerk overrides), and sends the resulting allocation list.
type PaymentService struct {
	ledger  application.LedgerAPI
	journal application.SubmissionJournal
	storeID string
	logger  *slog.Logger
}

func NewPaymentService(ledger application.LedgerAPI, journal application.SubmissionJournal, storeID string, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		ledger:  ledger,
		journal: journal,
		storeID: storeID,
		logger:  logger,
	}
}

// AllocationPreview is what the clerk sees before confirming a payment: the
// proposed plan plus the slips it drew on.
type AllocationPreview struct {
	Plan      domain.AllocationPlan
	OpenSlips []domain.CreditSlip
}

// PreviewAllocation computes the oldest-first distribution of a payment
// without submitting anything.
func (s *PaymentService) PreviewAllocation(ctx context.Context, staff application.StaffContext, customerID, currency string, amountCents int64) (*AllocationPreview, error) {
	if customerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	if amountCents <= 0 {
		return nil, domain.NewInvalidAmountInputError("", "payment amount must be positive")
	}

	slips, err := s.fetchOpenSlips(ctx, customerID, currency)
	if err != nil {
		return nil, application.Classify(err)
	}

	plan, err := domain.AllocatePayment(amountCents, slips)
	if err != nil {
		return nil, err
	}

	return &AllocationPreview{Plan: plan, OpenSlips: slips}, nil
}

// ProcessPayment allocates and submits a payment. Overrides, when present,
// are validated through the draft before anything is sent.
func (s *PaymentService) ProcessPayment(ctx context.Context, cmd PaymentCommand) (*application.ProcessPaymentResponse, error) {
	if cmd.CustomerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	if cmd.Method == "" {
		return nil, domain.NewMissingRequiredFieldError("payment method")
	}
	if cmd.AmountCents <= 0 {
		return nil, domain.NewInvalidAmountInputError("", "payment amount must be positive")
	}

	slips, err := s.fetchOpenSlips(ctx, cmd.CustomerID, cmd.Currency)
	if err != nil {
		return nil, application.Classify(err)
	}

	plan, err := s.buildPlan(cmd, slips)
	if err != nil {
		return nil, err
	}

	occurredAt := cmd.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	req := application.ProcessPaymentRequest{
		CustomerID:  cmd.CustomerID,
		StoreID:     s.storeID,
		Currency:    cmd.Currency,
		Method:      cmd.Method,
		AmountCents: cmd.AmountCents,
		Allocations: toAllocationRequests(plan),
		OccurredAt:  occurredAt,
	}

	key := uuid.New().String()
	recordSubmission(ctx, s.journal, s.logger, key, "process_payment", cmd.CustomerID, cmd.Staff.StaffID, req)

	resp, err := s.ledger.ProcessPayment(ctx, req, key)
	resolveSubmission(ctx, s.journal, s.logger, key, resp, err)
	if err != nil {
		return nil, application.Classify(err)
	}

	if resp.AppliedTotalCents+resp.WalletTopupCents != cmd.AmountCents {
		s.logger.Warn("ledger payment split differs from submitted amount",
			"payment_id", resp.PaymentID,
			"amount_cents", cmd.AmountCents,
			"applied_cents", resp.AppliedTotalCents,
			"wallet_topup_cents", resp.WalletTopupCents,
		)
	}

	s.logger.Info("payment processed",
		"payment_id", resp.PaymentID,
		"customer_id", cmd.CustomerID,
		"amount_cents", cmd.AmountCents,
		"slip_allocations", len(plan.SlipAllocations),
		"wallet_cents", plan.WalletCents,
		"staff_id", cmd.Staff.StaffID,
	)
	return resp, nil
}

func (s *PaymentService) fetchOpenSlips(ctx context.Context, customerID, currency string) ([]domain.CreditSlip, error) {
	list, err := s.ledger.FetchOpenSlips(ctx, customerID, currency, application.PageRequest{
		Page:    1,
		PerPage: openSlipsPageSize,
	})
	if err != nil {
		return nil, err
	}
	if list.Pagination.HasNext {
		s.logger.Warn("open slip list truncated, allocation only considers the first page",
			"customer_id", customerID,
			"page_size", openSlipsPageSize,
			"total_pages", list.Pagination.TotalPages,
		)
	}
	return list.Slips, nil
}

func (s *PaymentService) buildPlan(cmd PaymentCommand, slips []domain.CreditSlip) (domain.AllocationPlan, error) {
	if len(cmd.Overrides) == 0 {
		return domain.AllocatePayment(cmd.AmountCents, slips)
	}

	draft, err := domain.NewAllocationDraft(cmd.AmountCents, cmd.Currency, slips)
	if err != nil {
		return domain.AllocationPlan{}, err
	}
	if err := draft.ApplyOverrides(cmd.Overrides); err != nil {
		return domain.AllocationPlan{}, err
	}
	return draft.Build()
}

func toAllocationRequests(plan domain.AllocationPlan) []application.AllocationRequest {
	out := make([]application.AllocationRequest, 0, len(plan.SlipAllocations)+1)
	for _, a := range plan.SlipAllocations {
		out = append(out, application.AllocationRequest{
			Type:         application.AllocationTypeSlip,
			SlipID:       a.SlipID,
			AppliedCents: a.AmountCents,
		})
	}
	if plan.WalletCents > 0 {
		out = append(out, application.AllocationRequest{
			Type:         application.AllocationTypeWallet,
			AppliedCents: plan.WalletCents,
		})
	}
	return out
}

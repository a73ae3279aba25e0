package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// SlipService owns the credit-slip write operations: opening a slip, paying
// it down from the wallet, and banking change as wallet balance.
type SlipService struct {
	ledger  application.LedgerAPI
	journal application.SubmissionJournal
	storeID string
	logger  *slog.Logger
}

func NewSlipService(ledger application.LedgerAPI, journal application.SubmissionJournal, storeID string, logger *slog.Logger) *SlipService {
	return &SlipService{
		ledger:  ledger,
		journal: journal,
		storeID: storeID,
		logger:  logger,
	}
}

// CreateCreditSlip validates the sale lines, journals the submission under a
// fresh idempotency key and sends it to the ledger. The returned grand total
// is the ledger's; a mismatch against the local computation is logged since
// it means the two sides disagree about pricing rules.
func (s *SlipService) CreateCreditSlip(ctx context.Context, cmd CreateSlipCommand) (*application.CreateSlipResponse, error) {
	if err := validateSlipCommand(cmd); err != nil {
		return nil, err
	}

	occurredAt := cmd.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	req := application.CreateSlipRequest{
		CustomerID:    cmd.CustomerID,
		StoreID:       s.storeID,
		Currency:      cmd.Currency,
		Lines:         toLineRequests(cmd.Lines),
		TaxCents:      cmd.TaxCents,
		DiscountCents: cmd.DiscountCents,
		OccurredAt:    occurredAt,
	}

	key := uuid.New().String()
	recordSubmission(ctx, s.journal, s.logger, key, "create_credit_slip", cmd.CustomerID, cmd.Staff.StaffID, req)

	resp, err := s.ledger.CreateCreditSlip(ctx, req, key)
	resolveSubmission(ctx, s.journal, s.logger, key, resp, err)
	if err != nil {
		return nil, application.Classify(err)
	}

	expected := domain.ComputeTotals(cmd.Lines, cmd.TaxCents, cmd.DiscountCents)
	if expected.GrandTotal != resp.GrandTotalCents {
		s.logger.Warn("ledger grand total differs from local computation",
			"slip_id", resp.SlipID,
			"local_cents", expected.GrandTotal,
			"ledger_cents", resp.GrandTotalCents,
		)
	}

	s.logger.Info("credit slip created",
		"slip_id", resp.SlipID,
		"customer_id", cmd.CustomerID,
		"grand_total_cents", resp.GrandTotalCents,
		"staff_id", cmd.Staff.StaffID,
	)
	return resp, nil
}

// ApplyWalletToSlip asks the ledger to pay down one slip from the customer's
// wallet. The applied amount is decided server-side by the min rule; the
// terminal only previews it.
func (s *SlipService) ApplyWalletToSlip(ctx context.Context, cmd ApplyWalletCommand) (*application.ApplyWalletResponse, error) {
	if cmd.CustomerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	if cmd.SlipID == "" {
		return nil, domain.NewMissingRequiredFieldError("slip ID")
	}
	if cmd.Currency == "" {
		return nil, domain.NewMissingRequiredFieldError("currency")
	}

	req := application.ApplyWalletRequest{
		SlipID:     cmd.SlipID,
		CustomerID: cmd.CustomerID,
		Currency:   cmd.Currency,
	}

	key := uuid.New().String()
	recordSubmission(ctx, s.journal, s.logger, key, "apply_wallet_to_slip", cmd.CustomerID, cmd.Staff.StaffID, req)

	resp, err := s.ledger.ApplyWalletToSlip(ctx, req, key)
	resolveSubmission(ctx, s.journal, s.logger, key, resp, err)
	if err != nil {
		return nil, application.Classify(err)
	}

	s.logger.Info("wallet applied to slip",
		"slip_id", cmd.SlipID,
		"customer_id", cmd.CustomerID,
		"applied_cents", resp.AppliedCents,
		"slip_status", resp.SlipStatus,
		"staff_id", cmd.Staff.StaffID,
	)
	return resp, nil
}

// StoreChange banks change from a cash sale as wallet balance.
func (s *SlipService) StoreChange(ctx context.Context, cmd StoreChangeCommand) (*application.StoreChangeResponse, error) {
	if cmd.CustomerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	if cmd.Currency == "" {
		return nil, domain.NewMissingRequiredFieldError("currency")
	}
	if cmd.AmountCents <= 0 {
		return nil, domain.NewInvalidAmountInputError("", "change amount must be positive")
	}

	req := application.StoreChangeRequest{
		CustomerID:  cmd.CustomerID,
		AmountCents: cmd.AmountCents,
		Currency:    cmd.Currency,
	}

	key := uuid.New().String()
	recordSubmission(ctx, s.journal, s.logger, key, "store_change", cmd.CustomerID, cmd.Staff.StaffID, req)

	resp, err := s.ledger.StoreChange(ctx, req, key)
	resolveSubmission(ctx, s.journal, s.logger, key, resp, err)
	if err != nil {
		return nil, application.Classify(err)
	}

	s.logger.Info("change stored to wallet",
		"customer_id", cmd.CustomerID,
		"wallet_added_cents", resp.WalletAddedCents,
		"staff_id", cmd.Staff.StaffID,
	)
	return resp, nil
}

func validateSlipCommand(cmd CreateSlipCommand) error {
	if cmd.CustomerID == "" {
		return domain.NewMissingRequiredFieldError("customer ID")
	}
	if cmd.Currency == "" {
		return domain.NewMissingRequiredFieldError("currency")
	}
	if len(cmd.Lines) == 0 {
		return domain.NewMissingRequiredFieldError("slip lines")
	}
	for _, l := range cmd.Lines {
		if l.ItemID == "" {
			return domain.NewMissingRequiredFieldError("line item ID")
		}
		if l.Quantity <= 0 {
			return domain.NewInvalidAmountInputError("", "line quantity must be positive")
		}
		if l.UnitPriceCents < 0 {
			return domain.NewInvalidAmountInputError("", "unit price cannot be negative")
		}
	}
	if cmd.TaxCents < 0 {
		return domain.NewInvalidAmountInputError("", "tax cannot be negative")
	}
	if cmd.DiscountCents < 0 {
		return domain.NewInvalidAmountInputError("", "discount cannot be negative")
	}
	return nil
}

func toLineRequests(lines []domain.SlipLine) []application.SlipLineRequest {
	out := make([]application.SlipLineRequest, 0, len(lines))
	for _, l := range lines {
		out = append(out, application.SlipLineRequest{
			ItemID:         l.ItemID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	return out
}

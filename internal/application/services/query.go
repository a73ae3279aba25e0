package services

import (
	"context"
	"log/slog"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// QueryService is the read side of the terminal. It passes reads through to
// the ledger and converts failures into classified records; the only local
// rule is the role gate on the audit trail.
type QueryService struct {
	ledger application.LedgerAPI
	logger *slog.Logger
}

func NewQueryService(ledger application.LedgerAPI, logger *slog.Logger) *QueryService {
	return &QueryService{ledger: ledger, logger: logger}
}

func (s *QueryService) Balance(ctx context.Context, staff application.StaffContext, customerID, currency string) (*domain.WalletBalance, error) {
	if customerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	balance, err := s.ledger.FetchBalance(ctx, customerID, currency)
	if err != nil {
		return nil, application.Classify(err)
	}
	return balance, nil
}

func (s *QueryService) OpenSlips(ctx context.Context, staff application.StaffContext, customerID, currency string, page application.PageRequest) (*application.SlipListResponse, error) {
	if customerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	list, err := s.ledger.FetchOpenSlips(ctx, customerID, currency, page)
	if err != nil {
		return nil, application.Classify(err)
	}
	return list, nil
}

func (s *QueryService) TransactionHistory(ctx context.Context, staff application.StaffContext, customerID string, page application.PageRequest) (*application.TransactionListResponse, error) {
	if customerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	list, err := s.ledger.FetchTransactionHistory(ctx, customerID, page)
	if err != nil {
		return nil, application.Classify(err)
	}
	return list, nil
}

// AuditTrail is manager-only. The gate is enforced here as well as
// server-side so a misconfigured terminal fails closed.
func (s *QueryService) AuditTrail(ctx context.Context, staff application.StaffContext, customerID string, page application.PageRequest) (*application.AuditListResponse, error) {
	if customerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	if !staff.CanViewAuditTrail() {
		s.logger.Warn("audit trail access refused",
			"staff_id", staff.StaffID,
			"role", staff.Role,
			"customer_id", customerID,
		)
		return nil, application.NewLocalRecord(application.KindUnauthorizedAccess, "AUDIT_ROLE_REQUIRED", nil)
	}
	list, err := s.ledger.FetchAuditTrail(ctx, customerID, page)
	if err != nil {
		return nil, application.Classify(err)
	}
	return list, nil
}

func (s *QueryService) SearchCustomers(ctx context.Context, staff application.StaffContext, query string, page application.PageRequest) (*application.CustomerListResponse, error) {
	list, err := s.ledger.SearchCustomers(ctx, query, page)
	if err != nil {
		return nil, application.Classify(err)
	}
	return list, nil
}

func (s *QueryService) Customer(ctx context.Context, staff application.StaffContext, customerID string) (*application.Customer, error) {
	if customerID == "" {
		return nil, domain.NewMissingRequiredFieldError("customer ID")
	}
	customer, err := s.ledger.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, application.Classify(err)
	}
	return customer, nil
}

func (s *QueryService) Products(ctx context.Context, staff application.StaffContext, page application.PageRequest) (*application.ProductListResponse, error) {
	list, err := s.ledger.ListProducts(ctx, page)
	if err != nil {
		return nil, application.Classify(err)
	}
	return list, nil
}

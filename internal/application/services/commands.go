package services

import (
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

type CreateSlipCommand struct {
	Staff         application.StaffContext
	CustomerID    string
	Currency      string
	Lines         []domain.SlipLine
	TaxCents      int64
	DiscountCents int64
	OccurredAt    time.Time
}

type PaymentCommand struct {
	Staff       application.StaffContext
	CustomerID  string
	Currency    string
	Method      string
	AmountCents int64
	// Overrides replaces the automatic per-slip amounts where set; slips not
	// mentioned keep their automatic allocation.
	Overrides  map[string]int64
	OccurredAt time.Time
}

type ApplyWalletCommand struct {
	Staff      application.StaffContext
	CustomerID string
	SlipID     string
	Currency   string
}

type StoreChangeCommand struct {
	Staff       application.StaffContext
	CustomerID  string
	AmountCents int64
	Currency    string
}

// Package domain models the store-credit terminal's view of customer
// obligations: credit slips, wallet balances, and payment allocation.
package domain

import (
	"time"
)

// SlipStatus represents where a credit slip is in its payment lifecycle.
type SlipStatus string

const (
	SlipOpen          SlipStatus = "OPEN"
	SlipPartiallyPaid SlipStatus = "PARTIALLY_PAID"
	SlipClosed        SlipStatus = "CLOSED"
)

// SlipTotals is the money breakdown of one credit slip. All fields are cents.
// Remaining always equals GrandTotal - Paid and never goes negative.
type SlipTotals struct {
	Subtotal   int64
	Tax        int64
	Discount   int64
	GrandTotal int64
	Paid       int64
	Remaining  int64
}

// SlipLine is one purchased item on a credit slip.
type SlipLine struct {
	ItemID         string
	Description    string
	Quantity       int64
	UnitPriceCents int64
}

func (l SlipLine) ExtensionCents() int64 {
	return l.Quantity * l.UnitPriceCents
}

// CreditSlip is a snapshot of one outstanding obligation, as reported by the
// ledger service. The terminal never mutates slips locally except to preview
// the effect of a payment; the ledger owns the record.
type CreditSlip struct {
	ID         string
	SlipNumber string
	CustomerID string
	Currency   string
	Status     SlipStatus
	Totals     SlipTotals
	CreatedAt  time.Time
}

// ComputeTotals derives slip totals from lines, tax and discount. The
// discount is clamped so the grand total never goes negative.
func ComputeTotals(lines []SlipLine, taxCents, discountCents int64) SlipTotals {
	var subtotal int64
	for _, l := range lines {
		subtotal = AddCents(subtotal, l.ExtensionCents())
	}

	grand := AddCents(subtotal, taxCents)
	discount := discountCents
	if discount > grand {
		discount = grand
	}
	grand = SubtractCents(grand, discount)

	return SlipTotals{
		Subtotal:   subtotal,
		Tax:        taxCents,
		Discount:   discount,
		GrandTotal: grand,
		Paid:       0,
		Remaining:  grand,
	}
}

// ApplyPaymentAmount previews the slip after cents are paid against it. The
// amount must not exceed the remaining balance.
func (s *CreditSlip) ApplyPaymentAmount(cents int64) error {
	if cents < 0 {
		return NewInvalidAmountInputError("", "payment amount cannot be negative")
	}
	if cents > s.Totals.Remaining {
		return NewSlipOverdrawError(s.ID, s.Totals.Remaining, cents)
	}
	if s.Status == SlipClosed {
		return NewInvalidTransitionError(SlipClosed, SlipPartiallyPaid)
	}

	s.Totals.Paid = AddCents(s.Totals.Paid, cents)
	s.Totals.Remaining = SubtractCents(s.Totals.GrandTotal, s.Totals.Paid)

	switch {
	case s.Totals.Remaining == 0:
		s.Status = SlipClosed
	case s.Totals.Paid > 0:
		s.Status = SlipPartiallyPaid
	}
	return nil
}

func (s *CreditSlip) IsOpen() bool {
	return s.Status != SlipClosed
}

package domain

import (
	"sort"
)

// SlipAllocation assigns part of a payment to one credit slip.
type SlipAllocation struct {
	SlipID      string
	AmountCents int64
}

// AllocationPlan is the full distribution of one payment: per-slip amounts
// plus whatever is left over as a wallet top-up. The amounts always sum to
// exactly the payment amount.
type AllocationPlan struct {
	SlipAllocations []SlipAllocation
	WalletCents     int64
}

func (p AllocationPlan) AllocatedToSlipsCents() int64 {
	var total int64
	for _, a := range p.SlipAllocations {
		total = AddCents(total, a.AmountCents)
	}
	return total
}

// AllocatePayment distributes a payment across a customer's open slips,
// oldest first, with ties broken by slip ID so the result is deterministic
// for any input ordering. Closed slips and slips with nothing remaining are
// skipped. The unconsumed remainder becomes wallet balance.
func AllocatePayment(paymentCents int64, openSlips []CreditSlip) (AllocationPlan, error) {
	if paymentCents < 0 {
		return AllocationPlan{}, NewInvalidAmountInputError("", "payment amount cannot be negative")
	}

	ordered := make([]CreditSlip, len(openSlips))
	copy(ordered, openSlips)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	plan := AllocationPlan{}
	remaining := paymentCents
	for _, slip := range ordered {
		if remaining == 0 {
			break
		}
		if !slip.IsOpen() || slip.Totals.Remaining <= 0 {
			continue
		}
		take := remaining
		if slip.Totals.Remaining < take {
			take = slip.Totals.Remaining
		}
		plan.SlipAllocations = append(plan.SlipAllocations, SlipAllocation{
			SlipID:      slip.ID,
			AmountCents: take,
		})
		remaining = SubtractCents(remaining, take)
	}

	plan.WalletCents = remaining
	return plan, nil
}

// AllocationDraft is the mutable preview a clerk edits before submitting a
// payment. It starts from the automatic plan; individual slip amounts can be
// overridden, and Build re-checks the invariants the automatic plan
// guarantees by construction: no slip takes more than its remaining balance,
// and the slip total never exceeds the payment.
type AllocationDraft struct {
	PaymentCents int64
	Currency     string

	slips     map[string]CreditSlip
	order     []string
	overrides map[string]int64
}

// NewAllocationDraft seeds a draft with the automatic oldest-first plan.
func NewAllocationDraft(paymentCents int64, currency string, openSlips []CreditSlip) (*AllocationDraft, error) {
	plan, err := AllocatePayment(paymentCents, openSlips)
	if err != nil {
		return nil, err
	}

	d := &AllocationDraft{
		PaymentCents: paymentCents,
		Currency:     currency,
		slips:        make(map[string]CreditSlip, len(openSlips)),
		overrides:    make(map[string]int64, len(openSlips)),
	}
	for _, s := range openSlips {
		if s.Currency != "" && currency != "" && s.Currency != currency {
			return nil, NewCurrencyMismatchError(currency, s.Currency)
		}
		d.slips[s.ID] = s
	}
	for _, a := range plan.SlipAllocations {
		d.order = append(d.order, a.SlipID)
		d.overrides[a.SlipID] = a.AmountCents
	}
	return d, nil
}

// SetSlipAmount overrides the amount allocated to one slip. Setting zero
// removes the slip from the plan.
func (d *AllocationDraft) SetSlipAmount(slipID string, cents int64) error {
	slip, ok := d.slips[slipID]
	if !ok {
		return NewUnknownSlipError(slipID)
	}
	if cents < 0 {
		return NewInvalidAmountInputError("", "allocation cannot be negative")
	}
	if cents > slip.Totals.Remaining {
		return NewSlipOverdrawError(slipID, slip.Totals.Remaining, cents)
	}

	previous, present := d.overrides[slipID]
	if !present && cents > 0 {
		d.order = append(d.order, slipID)
	}
	d.overrides[slipID] = cents
	if err := d.Validate(); err != nil {
		if present {
			d.overrides[slipID] = previous
		} else {
			delete(d.overrides, slipID)
			if cents > 0 {
				d.order = d.order[:len(d.order)-1]
			}
		}
		return err
	}
	return nil
}

// ApplyOverrides applies a complete override set in one step. Decreases are
// applied before increases so a set that satisfies the invariants as a whole
// is never rejected over a transient intermediate total, regardless of the
// map's iteration order.
func (d *AllocationDraft) ApplyOverrides(overrides map[string]int64) error {
	ids := make([]string, 0, len(overrides))
	for slipID := range overrides {
		ids = append(ids, slipID)
	}
	sort.Slice(ids, func(i, j int) bool {
		di := overrides[ids[i]] - d.overrides[ids[i]]
		dj := overrides[ids[j]] - d.overrides[ids[j]]
		if di != dj {
			return di < dj
		}
		return ids[i] < ids[j]
	})

	for _, slipID := range ids {
		if err := d.SetSlipAmount(slipID, overrides[slipID]); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the draft against the submission invariants: every slip
// amount within that slip's remaining balance, and the sum of slip amounts
// not exceeding the payment.
func (d *AllocationDraft) Validate() error {
	var total int64
	for slipID, cents := range d.overrides {
		slip, ok := d.slips[slipID]
		if !ok {
			return NewUnknownSlipError(slipID)
		}
		if cents > slip.Totals.Remaining {
			return NewSlipOverdrawError(slipID, slip.Totals.Remaining, cents)
		}
		total = AddCents(total, cents)
	}
	if total > d.PaymentCents {
		return NewOverAllocationError(d.PaymentCents, total)
	}
	return nil
}

// Build validates the draft and produces the final plan. Any part of the
// payment not assigned to a slip becomes wallet balance, preserving
// conservation just like the automatic plan.
func (d *AllocationDraft) Build() (AllocationPlan, error) {
	if err := d.Validate(); err != nil {
		return AllocationPlan{}, err
	}

	plan := AllocationPlan{}
	for _, slipID := range d.order {
		cents := d.overrides[slipID]
		if cents == 0 {
			continue
		}
		plan.SlipAllocations = append(plan.SlipAllocations, SlipAllocation{
			SlipID:      slipID,
			AmountCents: cents,
		})
	}
	plan.WalletCents = SubtractCents(d.PaymentCents, plan.AllocatedToSlipsCents())
	return plan, nil
}

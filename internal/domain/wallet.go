package domain

// WalletBalance is a per-customer, per-currency snapshot from the ledger:
// stored value on one side, the sum of open slip balances on the other.
type WalletBalance struct {
	CustomerID       string
	Currency         string
	WalletCents      int64
	OutstandingCents int64
	OpenSlipsCount   int
	AccountStatus    string
}

// NetPositionCents is wallet minus outstanding. Negative means the customer
// owes money.
func (w WalletBalance) NetPositionCents() int64 {
	return SubtractCents(w.WalletCents, w.OutstandingCents)
}

// WalletApplication is the result of applying wallet balance to one slip.
type WalletApplication struct {
	AppliedCents       int64
	NewWalletCents     int64
	RemainingSlipCents int64
	SlipClosed         bool
}

// ApplyWalletToSlip computes how much of a wallet balance covers a single
// slip: the applied amount is min(wallet, remaining), and the slip closes
// only when the application covers the full remaining balance.
func ApplyWalletToSlip(walletCents int64, slip CreditSlip) WalletApplication {
	applied := walletCents
	if slip.Totals.Remaining < applied {
		applied = slip.Totals.Remaining
	}
	if applied < 0 {
		applied = 0
	}

	remaining := SubtractCents(slip.Totals.Remaining, applied)
	return WalletApplication{
		AppliedCents:       applied,
		NewWalletCents:     SubtractCents(walletCents, applied),
		RemainingSlipCents: remaining,
		SlipClosed:         applied == slip.Totals.Remaining,
	}
}

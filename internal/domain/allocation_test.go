package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSlip(id string, remaining int64, createdAt time.Time) domain.CreditSlip {
	return domain.CreditSlip{
		ID:         id,
		CustomerID: "cust-1",
		Currency:   "RWF",
		Status:     domain.SlipOpen,
		Totals: domain.SlipTotals{
			GrandTotal: remaining,
			Remaining:  remaining,
		},
		CreatedAt: createdAt,
	}
}

func TestAllocatePayment(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("oldest slip is paid first, excess goes to wallet", func(t *testing.T) {
		slips := []domain.CreditSlip{
			openSlip("slip-b", 100_000, base.Add(time.Hour)),
			openSlip("slip-a", 300_000, base),
		}

		plan, err := domain.AllocatePayment(500_000, slips)
		require.NoError(t, err)

		require.Len(t, plan.SlipAllocations, 2)
		assert.Equal(t, "slip-a", plan.SlipAllocations[0].SlipID)
		assert.Equal(t, int64(300_000), plan.SlipAllocations[0].AmountCents)
		assert.Equal(t, "slip-b", plan.SlipAllocations[1].SlipID)
		assert.Equal(t, int64(100_000), plan.SlipAllocations[1].AmountCents)
		assert.Equal(t, int64(100_000), plan.WalletCents)
	})

	t.Run("partial payment stops at the first slip", func(t *testing.T) {
		slips := []domain.CreditSlip{
			openSlip("slip-a", 300_000, base),
			openSlip("slip-b", 100_000, base.Add(time.Hour)),
		}

		plan, err := domain.AllocatePayment(50_000, slips)
		require.NoError(t, err)

		require.Len(t, plan.SlipAllocations, 1)
		assert.Equal(t, "slip-a", plan.SlipAllocations[0].SlipID)
		assert.Equal(t, int64(50_000), plan.SlipAllocations[0].AmountCents)
		assert.Equal(t, int64(0), plan.WalletCents)
	})

	t.Run("no open slips sends everything to the wallet", func(t *testing.T) {
		plan, err := domain.AllocatePayment(75_000, nil)
		require.NoError(t, err)
		assert.Empty(t, plan.SlipAllocations)
		assert.Equal(t, int64(75_000), plan.WalletCents)
	})

	t.Run("closed and zero-remaining slips are skipped", func(t *testing.T) {
		closed := openSlip("slip-c", 0, base)
		closed.Status = domain.SlipClosed
		slips := []domain.CreditSlip{
			closed,
			openSlip("slip-d", 0, base),
			openSlip("slip-e", 10_000, base.Add(time.Minute)),
		}

		plan, err := domain.AllocatePayment(20_000, slips)
		require.NoError(t, err)
		require.Len(t, plan.SlipAllocations, 1)
		assert.Equal(t, "slip-e", plan.SlipAllocations[0].SlipID)
		assert.Equal(t, int64(10_000), plan.WalletCents)
	})

	t.Run("creation time ties break by slip ID", func(t *testing.T) {
		slips := []domain.CreditSlip{
			openSlip("slip-z", 10_000, base),
			openSlip("slip-a", 10_000, base),
		}

		plan, err := domain.AllocatePayment(10_000, slips)
		require.NoError(t, err)
		require.Len(t, plan.SlipAllocations, 1)
		assert.Equal(t, "slip-a", plan.SlipAllocations[0].SlipID)
	})

	t.Run("rejects negative payment", func(t *testing.T) {
		_, err := domain.AllocatePayment(-1, nil)
		assert.Error(t, err)
	})

	t.Run("conservation holds across payment sizes", func(t *testing.T) {
		slips := []domain.CreditSlip{
			openSlip("slip-1", 33_333, base),
			openSlip("slip-2", 1, base.Add(time.Second)),
			openSlip("slip-3", 250_000, base.Add(2*time.Second)),
		}

		for _, payment := range []int64{0, 1, 33_332, 33_333, 33_334, 283_334, 500_000} {
			plan, err := domain.AllocatePayment(payment, slips)
			require.NoError(t, err)
			assert.Equal(t, payment, plan.AllocatedToSlipsCents()+plan.WalletCents,
				"payment %d not conserved", payment)
			for _, a := range plan.SlipAllocations {
				assert.Positive(t, a.AmountCents)
			}
		}
	})

	t.Run("identical inputs produce identical plans", func(t *testing.T) {
		slips := []domain.CreditSlip{
			openSlip("slip-2", 40_000, base.Add(time.Hour)),
			openSlip("slip-1", 60_000, base),
		}

		first, err := domain.AllocatePayment(80_000, slips)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := domain.AllocatePayment(80_000, slips)
			require.NoError(t, err)
			assert.Equal(t, first, again, "run %d diverged", i)
		}
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		slips := []domain.CreditSlip{
			openSlip("slip-b", 10_000, base.Add(time.Hour)),
			openSlip("slip-a", 10_000, base),
		}

		_, err := domain.AllocatePayment(15_000, slips)
		require.NoError(t, err)
		assert.Equal(t, "slip-b", slips[0].ID)
	})
}

func TestAllocationDraft(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	slips := []domain.CreditSlip{
		openSlip("slip-a", 300_000, base),
		openSlip("slip-b", 100_000, base.Add(time.Hour)),
	}

	t.Run("seeds from the automatic plan", func(t *testing.T) {
		draft, err := domain.NewAllocationDraft(500_000, "RWF", slips)
		require.NoError(t, err)

		plan, err := draft.Build()
		require.NoError(t, err)
		require.Len(t, plan.SlipAllocations, 2)
		assert.Equal(t, int64(100_000), plan.WalletCents)
	})

	t.Run("override shifts the remainder to the wallet", func(t *testing.T) {
		draft, err := domain.NewAllocationDraft(500_000, "RWF", slips)
		require.NoError(t, err)

		require.NoError(t, draft.SetSlipAmount("slip-a", 150_000))

		plan, err := draft.Build()
		require.NoError(t, err)
		assert.Equal(t, int64(250_000), plan.AllocatedToSlipsCents())
		assert.Equal(t, int64(250_000), plan.WalletCents)
		assert.Equal(t, int64(500_000), plan.AllocatedToSlipsCents()+plan.WalletCents)
	})

	t.Run("zero override drops the slip from the plan", func(t *testing.T) {
		draft, err := domain.NewAllocationDraft(500_000, "RWF", slips)
		require.NoError(t, err)

		require.NoError(t, draft.SetSlipAmount("slip-b", 0))

		plan, err := draft.Build()
		require.NoError(t, err)
		require.Len(t, plan.SlipAllocations, 1)
		assert.Equal(t, "slip-a", plan.SlipAllocations[0].SlipID)
		assert.Equal(t, int64(200_000), plan.WalletCents)
	})

	t.Run("rejects allocating more than a slip's remaining balance", func(t *testing.T) {
		draft, err := domain.NewAllocationDraft(500_000, "RWF", slips)
		require.NoError(t, err)

		err = draft.SetSlipAmount("slip-b", 100_001)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeSlipOverdraw))
	})

	t.Run("rejects totals above the payment amount", func(t *testing.T) {
		draft, err := domain.NewAllocationDraft(50_000, "RWF", slips)
		require.NoError(t, err)

		err = draft.SetSlipAmount("slip-b", 100_000)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOverAllocation))
	})

	t.Run("applies a full override set regardless of map order", func(t *testing.T) {
		pair := []domain.CreditSlip{
			openSlip("slip-a", 10_000, base),
			openSlip("slip-b", 10_000, base.Add(time.Hour)),
		}

		// The automatic plan puts the whole 10,000 on slip-a. Moving it to
		// slip-b is valid as a set even though raising slip-b before zeroing
		// slip-a would transiently exceed the payment.
		for i := 0; i < 25; i++ {
			draft, err := domain.NewAllocationDraft(10_000, "RWF", pair)
			require.NoError(t, err)

			err = draft.ApplyOverrides(map[string]int64{
				"slip-a": 0,
				"slip-b": 10_000,
			})
			require.NoError(t, err, "run %d", i)

			plan, err := draft.Build()
			require.NoError(t, err)
			require.Len(t, plan.SlipAllocations, 1)
			assert.Equal(t, "slip-b", plan.SlipAllocations[0].SlipID)
			assert.Equal(t, int64(10_000), plan.SlipAllocations[0].AmountCents)
			assert.Zero(t, plan.WalletCents)
		}
	})

	t.Run("override set still rejects a per-slip overdraw", func(t *testing.T) {
		pair := []domain.CreditSlip{
			openSlip("slip-a", 10_000, base),
			openSlip("slip-b", 10_000, base.Add(time.Hour)),
		}

		draft, err := domain.NewAllocationDraft(10_000, "RWF", pair)
		require.NoError(t, err)

		err = draft.ApplyOverrides(map[string]int64{
			"slip-a": 0,
			"slip-b": 10_001,
		})
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeSlipOverdraw))
	})

	t.Run("rejects unknown slips and negative amounts", func(t *testing.T) {
		draft, err := domain.NewAllocationDraft(50_000, "RWF", slips)
		require.NoError(t, err)

		assert.Error(t, draft.SetSlipAmount("slip-x", 1_000))
		assert.Error(t, draft.SetSlipAmount("slip-a", -1))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		mixed := append([]domain.CreditSlip{}, slips...)
		mixed = append(mixed, domain.CreditSlip{
			ID:       "slip-usd",
			Currency: "USD",
			Status:   domain.SlipOpen,
			Totals:   domain.SlipTotals{GrandTotal: 100, Remaining: 100},
		})

		_, err := domain.NewAllocationDraft(50_000, "RWF", mixed)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeCurrencyMismatch))
	})
}

func TestApplyWalletToSlip(t *testing.T) {
	slip := openSlip("slip-a", 100_000, time.Now())

	t.Run("wallet smaller than slip leaves it open", func(t *testing.T) {
		app := domain.ApplyWalletToSlip(75_000, slip)
		assert.Equal(t, int64(75_000), app.AppliedCents)
		assert.Equal(t, int64(0), app.NewWalletCents)
		assert.Equal(t, int64(25_000), app.RemainingSlipCents)
		assert.False(t, app.SlipClosed)
	})

	t.Run("wallet covering the slip closes it", func(t *testing.T) {
		app := domain.ApplyWalletToSlip(100_000, slip)
		assert.Equal(t, int64(100_000), app.AppliedCents)
		assert.Equal(t, int64(0), app.RemainingSlipCents)
		assert.True(t, app.SlipClosed)
	})

	t.Run("wallet larger than slip keeps the excess", func(t *testing.T) {
		app := domain.ApplyWalletToSlip(175_000, slip)
		assert.Equal(t, int64(100_000), app.AppliedCents)
		assert.Equal(t, int64(75_000), app.NewWalletCents)
		assert.True(t, app.SlipClosed)
	})

	t.Run("empty wallet applies nothing", func(t *testing.T) {
		app := domain.ApplyWalletToSlip(0, slip)
		assert.Equal(t, int64(0), app.AppliedCents)
		assert.False(t, app.SlipClosed)
	})
}

func ExampleAllocatePayment() {
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	slips := []domain.CreditSlip{
		{ID: "s1", Status: domain.SlipOpen, Totals: domain.SlipTotals{Remaining: 30_000}, CreatedAt: created},
		{ID: "s2", Status: domain.SlipOpen, Totals: domain.SlipTotals{Remaining: 10_000}, CreatedAt: created.Add(time.Hour)},
	}
	plan, _ := domain.AllocatePayment(50_000, slips)
	for _, a := range plan.SlipAllocations {
		fmt.Println(a.SlipID, a.AmountCents)
	}
	fmt.Println("wallet", plan.WalletCents)
	// Output:
	// s1 30000
	// s2 10000
	// wallet 10000
}

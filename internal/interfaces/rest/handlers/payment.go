package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/application/services"
	"github.com/ledgerpos/credit-terminal/internal/domain"
	"github.com/ledgerpos/credit-terminal/internal/interfaces/rest"
)

type previewPayload struct {
	CustomerID string `json:"customer_id"`
	Currency   string `json:"currency"`
	// Amount is the clerk-typed whole-currency amount, e.g. "5,000".
	Amount string `json:"amount"`
}

type previewLineView struct {
	SlipID          string `json:"slip_id"`
	SlipNumber      string `json:"slip_number"`
	AmountCents     int64  `json:"amount_cents"`
	AmountDisplay   string `json:"amount_display"`
	SlipWillBePaid  bool   `json:"slip_will_be_paid"`
	RemainingBefore int64  `json:"remaining_before"`
}

type previewView struct {
	Allocations   []previewLineView `json:"allocations"`
	WalletCents   int64             `json:"wallet_cents"`
	WalletDisplay string            `json:"wallet_display"`
	TotalCents    int64             `json:"total_cents"`
}

func (h *Handlers) PreviewAllocation(w http.ResponseWriter, r *http.Request) {
	var payload previewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, application.NewLocalRecord(application.KindValidation, "MALFORMED_BODY", err), h.logger)
		return
	}

	amountCents, err := domain.ParseAmount(payload.Amount)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	preview, err := h.paymentService.PreviewAllocation(r.Context(), staffFromRequest(r), payload.CustomerID, payload.Currency, amountCents)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, toPreviewView(preview, payload.Currency, amountCents))
}

func toPreviewView(preview *services.AllocationPreview, currency string, amountCents int64) previewView {
	byID := make(map[string]domain.CreditSlip, len(preview.OpenSlips))
	for _, slip := range preview.OpenSlips {
		byID[slip.ID] = slip
	}

	view := previewView{
		Allocations:   make([]previewLineView, 0, len(preview.Plan.SlipAllocations)),
		WalletCents:   preview.Plan.WalletCents,
		WalletDisplay: domain.FormatCents(preview.Plan.WalletCents, currency, true),
		TotalCents:    amountCents,
	}
	for _, alloc := range preview.Plan.SlipAllocations {
		slip := byID[alloc.SlipID]
		view.Allocations = append(view.Allocations, previewLineView{
			SlipID:          alloc.SlipID,
			SlipNumber:      slip.SlipNumber,
			AmountCents:     alloc.AmountCents,
			AmountDisplay:   domain.FormatCents(alloc.AmountCents, currency, true),
			SlipWillBePaid:  alloc.AmountCents == slip.Totals.Remaining,
			RemainingBefore: slip.Totals.Remaining,
		})
	}
	return view
}

type processPaymentPayload struct {
	CustomerID string    `json:"customer_id"`
	Currency   string    `json:"currency"`
	Method     string    `json:"method"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
	// Overrides replaces the automatic amount for listed slips; values are
	// clerk-typed whole-currency amounts.
	Overrides map[string]string `json:"overrides"`
}

func (h *Handlers) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var payload processPaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, application.NewLocalRecord(application.KindValidation, "MALFORMED_BODY", err), h.logger)
		return
	}

	amountCents, err := domain.ParseAmount(payload.Amount)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	cmd := services.PaymentCommand{
		Staff:       staffFromRequest(r),
		CustomerID:  payload.CustomerID,
		Currency:    payload.Currency,
		Method:      payload.Method,
		AmountCents: amountCents,
		OccurredAt:  payload.OccurredAt,
	}

	if len(payload.Overrides) > 0 {
		cmd.Overrides = make(map[string]int64, len(payload.Overrides))
		for slipID, amount := range payload.Overrides {
			cents, err := domain.ParseAmount(amount)
			if err != nil {
				rest.WriteError(w, err, h.logger)
				return
			}
			cmd.Overrides[slipID] = cents
		}
	}

	resp, err := h.paymentService.ProcessPayment(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, resp)
}

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

type slipLinePayload struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	// UnitPrice is the clerk-typed whole-currency amount, e.g. "1,250".
	UnitPrice string `json:"unit_price"`
}

type createSlipPayload struct {
	CustomerID string            `json:"customer_id"`
	Currency   string            `json:"currency"`
	Lines      []slipLinePayload `json:"lines"`
	Tax        string            `json:"tax"`
	Discount   string            `json:"discount"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func (h *Handlers) CreateCreditSlip(w http.ResponseWriter, r *http.Request) {
	var payload createSlipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, application.NewLocalRecord(application.KindValidation, "MALFORMED_BODY", err), h.logger)
		return
	}

	cmd := services.CreateSlipCommand{
		Staff:      staffFromRequest(r),
		CustomerID: payload.CustomerID,
		Currency:   payload.Currency,
		OccurredAt: payload.OccurredAt,
	}

	for _, line := range payload.Lines {
		unitPriceCents, err := domain.ParseAmount(line.UnitPrice)
		if err != nil {
			rest.WriteError(w, err, h.logger)
			return
		}
		cmd.Lines = append(cmd.Lines, domain.SlipLine{
			ItemID:         line.ItemID,
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPriceCents: unitPriceCents,
		})
	}

	var err error
	if cmd.TaxCents, err = parseOptionalAmount(payload.Tax); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if cmd.DiscountCents, err = parseOptionalAmount(payload.Discount); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	resp, err := h.slipService.CreateCreditSlip(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, resp)
}

type applyWalletPayload struct {
	CustomerID string `json:"customer_id"`
	SlipID     string `json:"slip_id"`
	Currency   string `json:"currency"`
}

func (h *Handlers) ApplyWalletToSlip(w http.ResponseWriter, r *http.Request) {
	var payload applyWalletPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, application.NewLocalRecord(application.KindValidation, "MALFORMED_BODY", err), h.logger)
		return
	}

	resp, err := h.slipService.ApplyWalletToSlip(r.Context(), services.ApplyWalletCommand{
		Staff:      staffFromRequest(r),
		CustomerID: payload.CustomerID,
		SlipID:     payload.SlipID,
		Currency:   payload.Currency,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}

type storeChangePayload struct {
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

func (h *Handlers) StoreChange(w http.ResponseWriter, r *http.Request) {
	var payload storeChangePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, application.NewLocalRecord(application.KindValidation, "MALFORMED_BODY", err), h.logger)
		return
	}

	amountCents, err := domain.ParseAmount(payload.Amount)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	resp, err := h.slipService.StoreChange(r.Context(), services.StoreChangeCommand{
		Staff:       staffFromRequest(r),
		CustomerID:  payload.CustomerID,
		AmountCents: amountCents,
		Currency:    payload.Currency,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}

func parseOptionalAmount(input string) (int64, error) {
	if input == "" {
		return 0, nil
	}
	return domain.ParseAmount(input)
}

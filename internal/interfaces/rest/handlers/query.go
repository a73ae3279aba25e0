package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerpos/credit-terminal/internal/interfaces/rest"
)

func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	currency := r.URL.Query().Get("currency")

	balance, err := h.queryService.Balance(r.Context(), staffFromRequest(r), customerID, currency)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, balance)
}

func (h *Handlers) ListOpenSlips(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	currency := r.URL.Query().Get("currency")

	list, err := h.queryService.OpenSlips(r.Context(), staffFromRequest(r), customerID, currency, pageFromQuery(r))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, list)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	list, err := h.queryService.TransactionHistory(r.Context(), staffFromRequest(r), customerID, pageFromQuery(r))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, list)
}

func (h *Handlers) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	list, err := h.queryService.AuditTrail(r.Context(), staffFromRequest(r), customerID, pageFromQuery(r))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, list)
}

func (h *Handlers) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	list, err := h.queryService.SearchCustomers(r.Context(), staffFromRequest(r), query, pageFromQuery(r))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	customer, err := h.queryService.Customer(r.Context(), staffFromRequest(r), customerID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, customer)
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.queryService.Products(r.Context(), staffFromRequest(r), pageFromQuery(r))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, list)
}

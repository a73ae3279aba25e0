package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/application/services"
	"github.com/ledgerpos/credit-terminal/internal/config"
	"github.com/ledgerpos/credit-terminal/internal/interfaces/rest"
	"github.com/ledgerpos/credit-terminal/internal/interfaces/rest/middleware"
)

// Handlers is the HTTP surface the PoS shell talks to.
type Handlers struct {
	slipService    *services.SlipService
	paymentService *services.PaymentService
	queryService   *services.QueryService
	logger         *slog.Logger
}

func NewHandlers(
	slipService *services.SlipService,
	paymentService *services.PaymentService,
	queryService *services.QueryService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		slipService:    slipService,
		paymentService: paymentService,
		queryService:   queryService,
		logger:         logger,
	}
}

// Router assembles the middleware chain and routes.
func (h *Handlers) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/terminal", func(r chi.Router) {
		r.Use(middleware.StaffContext(h.logger))

		r.Post("/credit-slips", h.CreateCreditSlip)
		r.Post("/payments/preview", h.PreviewAllocation)
		r.Post("/payments", h.ProcessPayment)
		r.Post("/wallet/applications", h.ApplyWalletToSlip)
		r.Post("/wallet/deposits", h.StoreChange)

		r.Get("/customers", h.SearchCustomers)
		r.Get("/customers/{customerID}", h.GetCustomer)
		r.Get("/customers/{customerID}/balance", h.GetBalance)
		r.Get("/customers/{customerID}/credit-slips", h.ListOpenSlips)
		r.Get("/customers/{customerID}/transactions", h.ListTransactions)
		r.Get("/customers/{customerID}/audit-trail", h.ListAuditTrail)

		r.Get("/products", h.ListProducts)
	})

	return r
}

func staffFromRequest(r *http.Request) application.StaffContext {
	staff, _ := middleware.StaffFromContext(r.Context())
	return staff
}

func pageFromQuery(r *http.Request) application.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return application.PageRequest{Page: page, PerPage: perPage}
}

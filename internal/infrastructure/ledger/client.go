package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/config"
	"github.com/ledgerpos/credit-terminal/internal/domain"
)

// HTTPLedgerClient talks to the remote ledger service. Non-2xx responses
// become *application.LedgerError so the classifier can map them; transport
// failures are surfaced as-is (or tagged with application.ErrTransport when
// the client detects them itself).
type HTTPLedgerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewLedgerClient(cfg config.LedgerConfig) *HTTPLedgerClient {
	return &HTTPLedgerClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *HTTPLedgerClient) CreateCreditSlip(ctx context.Context, req application.CreateSlipRequest, idempotencyKey string) (*application.CreateSlipResponse, error) {
	u := fmt.Sprintf("%s/api/v1/credit-slips", c.baseURL)
	return sendRequest[application.CreateSlipRequest, application.CreateSlipResponse](c, ctx, http.MethodPost, u, &req, idempotencyKey)
}

func (c *HTTPLedgerClient) ProcessPayment(ctx context.Context, req application.ProcessPaymentRequest, idempotencyKey string) (*application.ProcessPaymentResponse, error) {
	u := fmt.Sprintf("%s/api/v1/payments", c.baseURL)
	return sendRequest[application.ProcessPaymentRequest, application.ProcessPaymentResponse](c, ctx, http.MethodPost, u, &req, idempotencyKey)
}

func (c *HTTPLedgerClient) ApplyWalletToSlip(ctx context.Context, req application.ApplyWalletRequest, idempotencyKey string) (*application.ApplyWalletResponse, error) {
	u := fmt.Sprintf("%s/api/v1/wallet/applications", c.baseURL)
	return sendRequest[application.ApplyWalletRequest, application.ApplyWalletResponse](c, ctx, http.MethodPost, u, &req, idempotencyKey)
}

func (c *HTTPLedgerClient) StoreChange(ctx context.Context, req application.StoreChangeRequest, idempotencyKey string) (*application.StoreChangeResponse, error) {
	u := fmt.Sprintf("%s/api/v1/wallet/deposits", c.baseURL)
	return sendRequest[application.StoreChangeRequest, application.StoreChangeResponse](c, ctx, http.MethodPost, u, &req, idempotencyKey)
}

func (c *HTTPLedgerClient) FetchBalance(ctx context.Context, customerID, currency string) (*domain.WalletBalance, error) {
	u := fmt.Sprintf("%s/api/v1/customers/%s/balance?currency=%s", c.baseURL, url.PathEscape(customerID), url.QueryEscape(currency))
	envelope, err := sendRequest[any, balanceEnvelope](c, ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	return envelope.Balance.toDomain(), nil
}

func (c *HTTPLedgerClient) FetchOpenSlips(ctx context.Context, customerID, currency string, page application.PageRequest) (*application.SlipListResponse, error) {
	u := fmt.Sprintf("%s/api/v1/customers/%s/credit-slips?status=open&currency=%s&%s",
		c.baseURL, url.PathEscape(customerID), url.QueryEscape(currency), pageQuery(page))
	dto, err := sendRequest[any, slipListDTO](c, ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	return dto.toPort(), nil
}

func (c *HTTPLedgerClient) FetchTransactionHistory(ctx context.Context, customerID string, page application.PageRequest) (*application.TransactionListResponse, error) {
	u := fmt.Sprintf("%s/api/v1/customers/%s/transactions?%s", c.baseURL, url.PathEscape(customerID), pageQuery(page))
	dto, err := sendRequest[any, transactionListDTO](c, ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	return dto.toPort(), nil
}

func (c *HTTPLedgerClient) FetchAuditTrail(ctx context.Context, customerID string, page application.PageRequest) (*application.AuditListResponse, error) {
	u := fmt.Sprintf("%s/api/v1/customers/%s/audit-trail?%s", c.baseURL, url.PathEscape(customerID), pageQuery(page))
	dto, err := sendRequest[any, auditListDTO](c, ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	return dto.toPort(), nil
}

func (c *HTTPLedgerClient) SearchCustomers(ctx context.Context, query string, page application.PageRequest) (*application.CustomerListResponse, error) {
	u := fmt.Sprintf("%s/api/v1/customers?q=%s&%s", c.baseURL, url.QueryEscape(query), pageQuery(page))
	dto, err := sendRequest[any, customerListDTO](c, ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	return dto.toPort(), nil
}

func (c *HTTPLedgerClient) GetCustomer(ctx context.Context, customerID string) (*application.Customer, error) {
	u := fmt.Sprintf("%s/api/v1/customers/%s", c.baseURL, url.PathEscape(customerID))
	return sendRequest[any, application.Customer](c, ctx, http.MethodGet, u, nil, "")
}

func (c *HTTPLedgerClient) ListProducts(ctx context.Context, page application.PageRequest) (*application.ProductListResponse, error) {
	u := fmt.Sprintf("%s/api/v1/products?%s", c.baseURL, pageQuery(page))
	dto, err := sendRequest[any, productListDTO](c, ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	return dto.toPort(), nil
}

func pageQuery(page application.PageRequest) string {
	q := url.Values{}
	if page.Page > 0 {
		q.Set("page", strconv.Itoa(page.Page))
	}
	if page.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(page.PerPage))
	}
	return q.Encode()
}

func sendRequest[Req any, Resp any](c *HTTPLedgerClient, ctx context.Context, method, url string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Err == "" {
			return nil, &application.LedgerError{
				Code:       "UNPARSEABLE_ERROR",
				Message:    string(body),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &application.LedgerError{
			Code:       errResp.Err,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var ledgerResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&ledgerResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", application.ErrTransport)
	}

	return &ledgerResp, nil
}

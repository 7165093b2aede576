// Package saga implements the Saga Executor (C8), Retry Policy Engine
// (C10), and Compensation Executor (C9): the orchestrator that drives
// an OrderLedger through Create Order -> Reserve Inventory -> Capture
// Payment -> Confirm Order, with retry/backoff and compensation.
package saga

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/inventory"
)

// StepClient is the facade over the three downstream services the
// saga drives, mirroring the teacher's one-interface-per-concern
// repository style (OrderRepository/OutboxRepository/IdempotencyRepository)
// generalized to remote calls instead of local persistence.
type StepClient interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error)
	ReserveInventory(ctx context.Context, req ReserveInventoryRequest) (ReserveInventoryResult, error)
	CapturePayment(ctx context.Context, req CapturePaymentRequest) error
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) error
	VoidPayment(ctx context.Context, req VoidPaymentRequest) error
	ReleaseInventory(ctx context.Context, orderID uuid.UUID) error
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
}

type CreateOrderRequest struct {
	OrderLedgerID    uuid.UUID
	UserID           uuid.UUID
	TotalAmountCents int64
	Currency         string
	Items            []CreateOrderItem
}

type CreateOrderItem struct {
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

type CreateOrderResult struct {
	OrderID uuid.UUID
}

type ReserveInventoryRequest struct {
	OrderID uuid.UUID
	Items   []inventory.LineItem
}

type ReserveInventoryResult struct {
	ReservationIDs []uuid.UUID
}

type CapturePaymentRequest struct {
	AuthorizationID string
	IdempotencyKey  string
}

type VoidPaymentRequest struct {
	AuthorizationID string
	IdempotencyKey  string
}

// HTTPStepClient implements StepClient over the three services'
// public JSON/HTTP surfaces (spec.md §6), with a bounded per-call
// timeout (spec.md §5) and typed-error translation (spec.md §7):
// connection failures and 5xx become ServiceConnectionError
// (retryable); 4xx business responses become non-retryable apperr
// business errors.
type HTTPStepClient struct {
	ordersURL    string
	inventoryURL string
	paymentsURL  string
	httpClient   *http.Client
}

func NewHTTPStepClient(ordersURL, inventoryURL, paymentsURL string, timeout time.Duration) *HTTPStepClient {
	return &HTTPStepClient{
		ordersURL:    ordersURL,
		inventoryURL: inventoryURL,
		paymentsURL:  paymentsURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPStepClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error) {
	items := make([]map[string]interface{}, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, map[string]interface{}{
			"product_id":       it.ProductID,
			"quantity":         it.Quantity,
			"unit_price_cents": it.UnitPriceCents,
		})
	}
	body := map[string]interface{}{
		"order_ledger_id":    req.OrderLedgerID,
		"user_id":            req.UserID,
		"total_amount_cents": req.TotalAmountCents,
		"currency":           req.Currency,
		"items":              items,
	}

	var resp struct {
		OrderID uuid.UUID `json:"order_id"`
	}
	if err := c.post(ctx, c.ordersURL+"/orders", body, &resp); err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{OrderID: resp.OrderID}, nil
}

func (c *HTTPStepClient) ReserveInventory(ctx context.Context, req ReserveInventoryRequest) (ReserveInventoryResult, error) {
	items := make([]map[string]interface{}, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, map[string]interface{}{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
		})
	}
	body := map[string]interface{}{
		"order_id": req.OrderID,
		"items":    items,
	}

	var resp struct {
		ReservationIDs []uuid.UUID `json:"reservation_ids"`
	}
	if err := c.post(ctx, c.inventoryURL+"/reservations", body, &resp); err != nil {
		return ReserveInventoryResult{}, err
	}
	return ReserveInventoryResult{ReservationIDs: resp.ReservationIDs}, nil
}

func (c *HTTPStepClient) CapturePayment(ctx context.Context, req CapturePaymentRequest) error {
	body := map[string]interface{}{"idempotency_key": req.IdempotencyKey}
	return c.post(ctx, c.paymentsURL+"/payments/capture/"+req.AuthorizationID, body, nil)
}

func (c *HTTPStepClient) ConfirmOrder(ctx context.Context, orderID uuid.UUID) error {
	return c.post(ctx, c.ordersURL+"/orders/"+orderID.String()+"/confirmation", nil, nil)
}

func (c *HTTPStepClient) VoidPayment(ctx context.Context, req VoidPaymentRequest) error {
	body := map[string]interface{}{"idempotency_key": req.IdempotencyKey}
	return c.post(ctx, c.paymentsURL+"/payments/void/"+req.AuthorizationID, body, nil)
}

func (c *HTTPStepClient) ReleaseInventory(ctx context.Context, orderID uuid.UUID) error {
	url := c.inventoryURL + "/reservations/" + orderID.String()
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *HTTPStepClient) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	return c.post(ctx, c.ordersURL+"/orders/"+orderID.String()+"/cancellation", nil, nil)
}

func (c *HTTPStepClient) post(ctx context.Context, url string, reqBody interface{}, respBody interface{}) error {
	return c.do(ctx, http.MethodPost, url, reqBody, respBody)
}

func (c *HTTPStepClient) do(ctx context.Context, method, url string, reqBody interface{}, respBody interface{}) error {
	var reader *bytes.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "marshal_request_failed", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "build_request_failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "service_connection_error", fmt.Errorf("call %s %s: %w", method, url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if respBody != nil {
			if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
				return apperr.Wrap(apperr.KindInternal, "decode_response_failed", err)
			}
		}
		return nil
	}

	var errBody struct {
		Error       string `json:"error"`
		Message     string `json:"message"`
		IsRetryable bool   `json:"is_retryable"`
		ProductID   string `json:"product_id"`
		ProductSKU  string `json:"product_sku"`
		Requested   int    `json:"requested"`
		Available   int    `json:"available"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusRequestTimeout {
		return apperr.New(apperr.KindTransient, "service_connection_error",
			fmt.Sprintf("%s %s returned %d", method, url, resp.StatusCode))
	}

	code := errBody.Error
	if code == "" {
		code = "business_error"
	}
	return apperr.New(apperr.KindBusiness, code, errBody.Message)
}

package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// PaymentsClient is the Edge Order Service's view of the Payment
// Gateway Adapter: just the one call it needs (spec.md §4.1 step 4),
// mirroring saga.StepClient's one-interface-per-concern shape.
type PaymentsClient interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResult, error)
}

type AuthorizeRequest struct {
	UserID         string
	AmountCents    int64
	Currency       string
	Token          string
	IdempotencyKey string
}

type AuthorizeResult struct {
	AuthorizationID string
}

// HTTPPaymentsClient calls the Payments service's public HTTP surface,
// translating its declined/gateway-error responses into the same
// apperr taxonomy the saga's HTTPStepClient uses (spec.md §7): 402
// becomes a non-retryable KindBusiness error, 503/5xx becomes a
// retryable KindTransient gateway_error.
type HTTPPaymentsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPPaymentsClient(baseURL string, timeout time.Duration) *HTTPPaymentsClient {
	return &HTTPPaymentsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPPaymentsClient) Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResult, error) {
	body := map[string]interface{}{
		"user_id":         req.UserID,
		"amount_cents":    req.AmountCents,
		"currency":        req.Currency,
		"token":           req.Token,
		"idempotency_key": req.IdempotencyKey,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return AuthorizeResult{}, apperr.Wrap(apperr.KindInternal, "marshal_request_failed", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/authorize", bytes.NewReader(data))
	if err != nil {
		return AuthorizeResult{}, apperr.Wrap(apperr.KindInternal, "build_request_failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return AuthorizeResult{}, apperr.New(apperr.KindTransient, "gateway_error", fmt.Sprintf("payment gateway unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var out struct {
			AuthorizationID string `json:"authorization_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return AuthorizeResult{}, apperr.Wrap(apperr.KindInternal, "decode_response_failed", err)
		}
		return AuthorizeResult{AuthorizationID: out.AuthorizationID}, nil
	}

	var errBody struct {
		Error       string `json:"error"`
		DeclineCode string `json:"decline_code"`
		Message     string `json:"message"`
		IsRetryable bool   `json:"is_retryable"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)

	if resp.StatusCode == http.StatusPaymentRequired {
		code := errBody.DeclineCode
		if code == "" {
			code = "card_declined"
		}
		return AuthorizeResult{}, apperr.New(apperr.KindBusiness, code, errBody.Message)
	}

	msg := errBody.Message
	if msg == "" {
		msg = fmt.Sprintf("payment gateway returned %d", resp.StatusCode)
	}
	return AuthorizeResult{}, apperr.New(apperr.KindTransient, "gateway_error", msg)
}

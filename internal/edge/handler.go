package edge

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// Handler exposes the Edge Order Service's HTTP surface (spec.md §6):
// POST /orders, GET /orders/{order_ledger_id}.
type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		logger:    logger.With().Str("component", "edge_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orders", h.create).Methods(http.MethodPost)
	r.HandleFunc("/orders/{order_ledger_id}", h.get).Methods(http.MethodGet)
}

type createOrderRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	Email    string    `json:"email" validate:"required,email,max=255"`
	Currency string    `json:"currency" validate:"required,len=3"`
	Items    []struct {
		ProductID uuid.UUID `json:"product_id" validate:"required"`
		Quantity  int       `json:"quantity" validate:"required,gte=1,lte=100"`
		// unit_price_cents is supplied by the caller (spec.md §4.1 step
		// 2 — this service never looks prices up).
		UnitPriceCents int64 `json:"unit_price_cents" validate:"gte=0"`
	} `json:"items" validate:"required,min=1,max=50,dive"`
	Payment struct {
		Method string `json:"method" validate:"required,eq=card"`
		Token  string `json:"token" validate:"required"`
	} `json:"payment" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "missing_idempotency_key", "Idempotency-Key header is required"))
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_body", "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "validation_error", err.Error()))
		return
	}

	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, Item{ProductID: it.ProductID, Quantity: it.Quantity, UnitPriceCents: it.UnitPriceCents})
	}

	result, err := h.service.CreateOrder(r.Context(), CreateRequest{
		IdempotencyKey: idempotencyKey,
		UserID:         req.UserID,
		Email:          req.Email,
		Currency:       req.Currency,
		Items:          items,
		PaymentMethod:  req.Payment.Method,
		PaymentToken:   req.Payment.Token,
	})
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"order_ledger_id": result.OrderLedgerID,
		"status":          result.Status,
		"message":         "order accepted for processing",
	})
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	if e, ok := err.(*DuplicateRequestError); ok {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":           "duplicate_request",
			"order_ledger_id": e.OrderLedgerID,
			"status":          e.Status,
		})
		return
	}
	if e, ok := err.(*PaymentDeclinedError); ok {
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":           "payment_declined",
			"order_ledger_id": e.OrderLedgerID,
			"decline_code":    e.DeclineCode,
			"message":         e.Message,
			"is_retryable":    false,
		})
		return
	}
	if e, ok := err.(*GatewayError); ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error":        "gateway_error",
			"message":      e.Message,
			"is_retryable": true,
		})
		return
	}
	apperr.WriteHTTP(w, err)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["order_ledger_id"])
	if err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_uuid", "invalid order_ledger_id"))
		return
	}

	l, items, err := h.service.FindById(r.Context(), id)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}

	respItems := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		respItems = append(respItems, map[string]interface{}{
			"product_id":       it.ProductID,
			"quantity":         it.Quantity,
			"unit_price_cents": it.UnitPriceCents,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_ledger_id":          l.ID,
		"client_request_id":        l.ClientRequestID,
		"status":                   l.Status,
		"user_id":                  l.UserID,
		"email":                    l.Email,
		"total_amount_cents":       l.TotalAmountCents,
		"currency":                 l.Currency,
		"payment_authorization_id": l.PaymentAuthorizationID,
		"created_at":               l.CreatedAt,
		"updated_at":               l.UpdatedAt,
		"items":                    respItems,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

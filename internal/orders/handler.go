package orders

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// Handler exposes the Orders service's HTTP surface (spec.md §6):
// POST /orders, GET /orders/{order_id}, POST /orders/{order_id}/cancellation,
// POST /orders/{order_id}/confirmation.
type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		logger:    logger.With().Str("component", "orders_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orders", h.create).Methods(http.MethodPost)
	r.HandleFunc("/orders/{order_id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{order_id}/cancellation", h.cancel).Methods(http.MethodPost)
	r.HandleFunc("/orders/{order_id}/confirmation", h.confirm).Methods(http.MethodPost)
}

type createOrderRequest struct {
	OrderLedgerID    uuid.UUID `json:"order_ledger_id" validate:"required"`
	UserID           uuid.UUID `json:"user_id" validate:"required"`
	TotalAmountCents int64     `json:"total_amount_cents" validate:"gte=0"`
	Currency         string    `json:"currency" validate:"required,len=3"`
	Items            []struct {
		ProductID      uuid.UUID `json:"product_id" validate:"required"`
		Quantity       int       `json:"quantity" validate:"required,gte=1"`
		UnitPriceCents int64     `json:"unit_price_cents" validate:"gte=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.service.CreateOrder(r.Context(), CreateRequest{
		OrderLedgerID:    req.OrderLedgerID,
		UserID:           req.UserID,
		TotalAmountCents: req.TotalAmountCents,
		Currency:         req.Currency,
		Items:            items,
	})
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(order))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["order_id"])
	if err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_uuid", "invalid order id"))
		return
	}
	order, err := h.service.FindById(r.Context(), id)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(order))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["order_id"])
	if err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_uuid", "invalid order id"))
		return
	}
	order, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(order))
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["order_id"])
	if err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_uuid", "invalid order id"))
		return
	}
	order, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(order))
}

func toResponse(o *Order) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]interface{}{
			"product_id":       it.ProductID,
			"quantity":         it.Quantity,
			"unit_price_cents": it.UnitPriceCents,
		})
	}
	return map[string]interface{}{
		"order_id":           o.ID,
		"order_ledger_id":    o.OrderLedgerID,
		"user_id":            o.UserID,
		"status":             o.Status,
		"total_amount_cents": o.TotalAmountCents,
		"currency":           o.Currency,
		"items":              items,
		"created_at":         o.CreatedAt,
		"updated_at":         o.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

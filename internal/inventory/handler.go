package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// Handler exposes the Inventory service's HTTP surface (spec.md §6):
// POST /products, GET /products/{id}/availability, POST /reservations,
// and the release-by-order_id endpoint, following the teacher's
// validator.Struct-then-dispatch handler shape.
type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		logger:    logger.With().Str("component", "inventory_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}/availability", h.getAvailability).Methods(http.MethodGet)
	r.HandleFunc("/reservations", h.reserve).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{order_id}", h.release).Methods(http.MethodDelete)
}

type createProductRequest struct {
	SKU           string `json:"sku" validate:"required"`
	Name          string `json:"name" validate:"required"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_body", "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "validation_error", err.Error()))
		return
	}

	p := &Product{SKU: req.SKU, Name: req.Name, StockQuantity: req.StockQuantity}
	if err := h.service.CreateProduct(r.Context(), p); err != nil {
		apperr.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":             p.ID,
		"sku":            p.SKU,
		"stock_quantity": p.StockQuantity,
	})
}

func (h *Handler) getAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_uuid", "invalid product id"))
		return
	}

	product, err := h.service.GetAvailability(r.Context(), id)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product_id":     product.ID,
		"sku":            product.SKU,
		"stock_quantity": product.StockQuantity,
	})
}

type reserveRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Items   []struct {
		ProductID uuid.UUID `json:"product_id" validate:"required"`
		Quantity  int       `json:"quantity" validate:"required,gte=1"`
	} `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) reserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_body", "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "validation_error", err.Error()))
		return
	}

	items := make([]LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	result, err := h.service.ReserveStock(r.Context(), req.OrderID, items)
	if err != nil {
		if insufficient, ok := err.(*InsufficientStockError); ok {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":         "insufficient_stock",
				"product_id":    insufficient.ProductID,
				"product_sku":   insufficient.SKU,
				"requested":     insufficient.Requested,
				"available":     insufficient.Available,
			})
			return
		}
		apperr.WriteHTTP(w, err)
		return
	}

	totalQty := 0
	for _, it := range items {
		totalQty += it.Quantity
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id":                req.OrderID,
		"reservation_ids":         result.ReservationIDs,
		"line_items_reserved":     len(items),
		"total_quantity_reserved": totalQty,
	})
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["order_id"])
	if err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_uuid", "invalid order id"))
		return
	}
	if err := h.service.ReleaseStock(r.Context(), orderID); err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order_id": orderID, "status": "released"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

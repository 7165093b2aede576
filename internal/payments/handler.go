package payments

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// Handler exposes the Payments service's HTTP surface (spec.md §6):
// POST /payments/authorize, POST /payments/capture/{authorization_id},
// POST /payments/void/{authorization_id}.
type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		logger:    logger.With().Str("component", "payments_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/payments/authorize", h.authorize).Methods(http.MethodPost)
	r.HandleFunc("/payments/capture/{authorization_id}", h.capture).Methods(http.MethodPost)
	r.HandleFunc("/payments/void/{authorization_id}", h.void).Methods(http.MethodPost)
}

type authorizeRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	AmountCents    int64  `json:"amount_cents" validate:"gte=0"`
	Currency       string `json:"currency" validate:"required,len=3"`
	Token          string `json:"token" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_body", "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "validation_error", err.Error()))
		return
	}

	a, err := h.service.Authorize(r.Context(), AuthorizeRequest{
		UserID:         req.UserID,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		Token:          req.Token,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindBusiness {
			writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
				"error":        "payment_declined",
				"decline_code": e.Code,
				"message":      e.Message,
				"is_retryable": false,
			})
			return
		}
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindTransient {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"error":        "gateway_error",
				"message":      e.Message,
				"is_retryable": true,
			})
			return
		}
		apperr.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authorization_id": a.AuthorizationID,
		"status":           a.Status,
	})
}

type mutationRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

func (h *Handler) capture(w http.ResponseWriter, r *http.Request) {
	authID := mux.Vars(r)["authorization_id"]
	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_body", "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "validation_error", err.Error()))
		return
	}

	a, err := h.service.Capture(r.Context(), authID, req.IdempotencyKey)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authorization_id": a.AuthorizationID,
		"status":           a.Status,
	})
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	authID := mux.Vars(r)["authorization_id"]
	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "invalid_body", "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		apperr.WriteHTTP(w, apperr.New(apperr.KindValidation, "validation_error", err.Error()))
		return
	}

	a, err := h.service.Void(r.Context(), authID, req.IdempotencyKey)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authorization_id": a.AuthorizationID,
		"status":           a.Status,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

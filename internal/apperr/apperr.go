// Package apperr defines the shared error taxonomy used across all five
// orderflow services: validation, duplicate-request, business-rule,
// transient-infrastructure, and internal errors, each carrying whether
// a caller or saga may safely retry.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the error taxonomy. Every error that crosses a
// service boundary is tagged with exactly one Kind.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindBusiness
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindDuplicate:
		return "duplicate_request"
	case KindBusiness:
		return "business_error"
	case KindTransient:
		return "transient_error"
	default:
		return "internal_error"
	}
}

// Error is the concrete tagged error type. Code is a short machine-
// readable discriminator (e.g. "insufficient_stock", "payment_declined")
// used by callers that need to branch on the specific business rule,
// distinct from Kind which only says which bucket it falls in.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether the saga or an HTTP client may retry the
// operation that produced this error. Only KindTransient errors are
// retryable; everything else is either permanent or already recovered
// locally (duplicate-request).
func (e *Error) IsRetryable() bool {
	return e.Kind == KindTransient
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: err.Error(), Err: err}
}

// As is a small convenience wrapper around errors.As for the common
// case of testing whether an error in a chain is a tagged *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable reports whether err is a tagged transient error. Errors
// that are not *Error (unexpected internal failures) are treated as
// non-retryable by default — callers should not retry what they don't
// understand.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.IsRetryable()
}

// StatusCode maps a Kind to the HTTP status code every service's
// handlers use, the one-place replacement for the teacher's per-handler
// mapError switch (one service there, five services here, one taxonomy).
func StatusCode(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindBusiness:
		switch e.Code {
		case "not_found", "product_not_found":
			return http.StatusNotFound
		case "already_captured", "already_voided", "insufficient_stock", "invalid_status":
			return http.StatusConflict
		case "card_declined", "insufficient_funds":
			return http.StatusPaymentRequired
		}
		return http.StatusUnprocessableEntity
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type envelope struct {
	Error struct {
		Kind    string `json:"kind"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteHTTP writes err to w as the shared JSON error envelope with the
// status code StatusCode(err) maps it to.
func WriteHTTP(w http.ResponseWriter, err error) {
	e, ok := As(err)
	if !ok {
		e = Wrap(KindInternal, "internal_error", err)
	}
	var body envelope
	body.Error.Kind = e.Kind.String()
	body.Error.Code = e.Code
	body.Error.Message = e.Message
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(e))
	_ = json.NewEncoder(w).Encode(body)
}

// Common business-rule sentinels shared by more than one service.
var (
	ErrNotFound        = New(KindBusiness, "not_found", "resource not found")
	ErrOptimisticLock  = New(KindTransient, "optimistic_lock", "concurrent modification, retry")
	ErrInvalidStatus   = New(KindBusiness, "invalid_status", "operation not valid for current status")
	ErrAlreadyCaptured = New(KindBusiness, "already_captured", "authorization already captured")
	ErrAlreadyVoided   = New(KindBusiness, "already_voided", "authorization already voided")
)

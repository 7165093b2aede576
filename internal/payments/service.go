package payments

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/idempotency"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

// Service implements the Payment Gateway Adapter (spec.md §4.8):
// Authorize/Capture/Void against the mock Gateway, with every mutation
// keyed by its own idempotency key and the authoritative state machine
// enforced against the Repository.
type Service struct {
	gateway Gateway
	repo    Repository
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func NewService(gateway Gateway, repo Repository, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		metrics: metrics,
		logger:  logger.With().Str("component", "payments_service").Logger(),
	}
}

// Authorize returns the stored prior result byte-for-byte if
// IdempotencyKey has already been used (spec.md §4.8), otherwise calls
// the gateway and persists the outcome. A decline is never persisted
// here (there is no authorization_id to key it by); it is reported to
// the caller as an apperr business error and it is the Edge service's
// responsibility to write the audit ledger row for it.
func (s *Service) Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error) {
	requestHash, hashErr := idempotency.RequestHash(req)
	if hashErr != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "request_hash_failed", hashErr)
	}

	if existing, err := s.repo.GetByIdempotencyKey(ctx, req.IdempotencyKey); err == nil {
		if existing.RequestHash != "" && existing.RequestHash != requestHash {
			s.logger.Warn().Str("idempotency_key", req.IdempotencyKey).
				Msg("authorize replay with a different request body, returning original stored result")
		} else {
			s.logger.Debug().Str("idempotency_key", req.IdempotencyKey).Msg("authorize replay, returning stored result")
		}
		return existing, nil
	} else if e, ok := apperr.As(err); !ok || e != apperr.ErrNotFound {
		return nil, err
	}

	result, gwErr := s.gateway.Authorize(ctx, req)
	if gwErr != nil {
		if s.metrics != nil {
			s.metrics.AuthorizationsTotal.WithLabelValues("declined_or_error").Inc()
		}
		return nil, gwErr
	}

	a := &Authorization{
		AuthorizationID: result.AuthorizationID,
		UserID:          req.UserID,
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		Status:          StatusAuthorized,
		IdempotencyKey:  req.IdempotencyKey,
		RequestHash:     requestHash,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindDuplicate {
			return s.repo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AuthorizationsTotal.WithLabelValues("approved").Inc()
	}
	return a, nil
}

// Capture transitions AUTHORIZED -> CAPTURED. Already-CAPTURED is
// treated as success (idempotent re-entry, e.g. saga retry); an
// attempt against a VOIDED authorization fails with AlreadyVoided.
func (s *Service) Capture(ctx context.Context, authorizationID, idempotencyKey string) (*Authorization, error) {
	a, err := s.repo.GetByID(ctx, authorizationID)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case StatusCaptured:
		return a, nil
	case StatusVoided:
		return nil, apperr.ErrAlreadyVoided
	}

	if err := s.gateway.Capture(ctx, authorizationID); err != nil {
		return nil, err
	}

	a.Status = StatusCaptured
	a.CaptureIdempotencyKey = idempotencyKey
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		if e, ok := apperr.As(err); ok && e == apperr.ErrOptimisticLock {
			return s.repo.GetByID(ctx, authorizationID)
		}
		return nil, err
	}
	return a, nil
}

// Void transitions AUTHORIZED -> VOIDED. Already-VOIDED is success; an
// attempt against a CAPTURED authorization fails with AlreadyCaptured.
func (s *Service) Void(ctx context.Context, authorizationID, idempotencyKey string) (*Authorization, error) {
	a, err := s.repo.GetByID(ctx, authorizationID)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case StatusVoided:
		return a, nil
	case StatusCaptured:
		return nil, apperr.ErrAlreadyCaptured
	}

	if err := s.gateway.Void(ctx, authorizationID); err != nil {
		return nil, err
	}

	a.Status = StatusVoided
	a.VoidIdempotencyKey = idempotencyKey
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		if e, ok := apperr.As(err); ok && e == apperr.ErrOptimisticLock {
			return s.repo.GetByID(ctx, authorizationID)
		}
		return nil, err
	}
	return a, nil
}

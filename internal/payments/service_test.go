package payments

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/idempotency"
	"github.com/cypherlabdev/orderflow/internal/mocks"
)

func newTestService(t *testing.T) (*Service, *mocks.MockGateway, *mocks.MockPaymentsRepository) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	repo := mocks.NewMockPaymentsRepository(ctrl)
	return NewService(gw, repo, nil, zerolog.Nop()), gw, repo
}

func TestService_Authorize_Success(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	req := AuthorizeRequest{
		UserID:         "user-1",
		AmountCents:    1000,
		Currency:       "USD",
		Token:          "tok_ok",
		IdempotencyKey: "idem-1",
	}

	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-1").Return(nil, apperr.ErrNotFound)
	gw.EXPECT().Authorize(ctx, req).Return(AuthorizeResult{AuthorizationID: "auth-1"}, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	a, err := svc.Authorize(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", a.AuthorizationID)
	assert.Equal(t, StatusAuthorized, a.Status)
	assert.NotEmpty(t, a.RequestHash)
}

func TestService_Authorize_ReplayReturnsStoredResult(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	req := AuthorizeRequest{IdempotencyKey: "idem-2", AmountCents: 500, Currency: "USD", Token: "tok_ok"}
	hash, err := idempotency.RequestHash(req)
	require.NoError(t, err)
	existing := &Authorization{AuthorizationID: "auth-2", IdempotencyKey: "idem-2", RequestHash: hash, Status: StatusAuthorized}

	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-2").Return(existing, nil)

	a, err := svc.Authorize(ctx, req)
	require.NoError(t, err)
	assert.Same(t, existing, a)
}

func TestService_Authorize_ReplayWithDifferentBodyStillReturnsStoredResult(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	req := AuthorizeRequest{IdempotencyKey: "idem-3", AmountCents: 999, Currency: "USD", Token: "tok_ok"}
	existing := &Authorization{AuthorizationID: "auth-3", IdempotencyKey: "idem-3", RequestHash: "some-other-hash", Status: StatusAuthorized}

	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-3").Return(existing, nil)

	a, err := svc.Authorize(ctx, req)
	require.NoError(t, err)
	assert.Same(t, existing, a)
}

func TestService_Authorize_GatewayDeclineIsNotPersisted(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	req := AuthorizeRequest{IdempotencyKey: "idem-4", Token: "tok_decline"}

	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-4").Return(nil, apperr.ErrNotFound)
	gw.EXPECT().Authorize(ctx, req).Return(AuthorizeResult{}, apperr.New(apperr.KindBusiness, "card_declined", "payment declined"))

	a, err := svc.Authorize(ctx, req)
	assert.Nil(t, a)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "card_declined", e.Code)
}

func TestService_Authorize_GatewayTransientErrorPropagates(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	req := AuthorizeRequest{IdempotencyKey: "idem-5", Token: "tok_ok"}

	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-5").Return(nil, apperr.ErrNotFound)
	gw.EXPECT().Authorize(ctx, req).Return(AuthorizeResult{}, apperr.New(apperr.KindTransient, "gateway_error", "gateway unavailable"))

	_, err := svc.Authorize(ctx, req)
	require.True(t, apperr.IsRetryable(err))
}

func TestService_Authorize_LosesRaceOnDuplicateCreate(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	req := AuthorizeRequest{IdempotencyKey: "idem-6", Token: "tok_ok"}
	winner := &Authorization{AuthorizationID: "auth-winner", IdempotencyKey: "idem-6"}

	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-6").Return(nil, apperr.ErrNotFound)
	gw.EXPECT().Authorize(ctx, req).Return(AuthorizeResult{AuthorizationID: "auth-loser"}, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(apperr.New(apperr.KindDuplicate, "duplicate_request", "already exists"))
	repo.EXPECT().GetByIdempotencyKey(ctx, "idem-6").Return(winner, nil)

	a, err := svc.Authorize(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "auth-winner", a.AuthorizationID)
}

func TestService_Capture_FromAuthorized(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusAuthorized}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)
	gw.EXPECT().Capture(ctx, "auth-1").Return(nil)
	repo.EXPECT().UpdateStatus(ctx, a).Return(nil)

	result, err := svc.Capture(ctx, "auth-1", "cap-idem-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCaptured, result.Status)
}

func TestService_Capture_AlreadyCapturedIsIdempotent(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusCaptured}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)

	result, err := svc.Capture(ctx, "auth-1", "cap-idem-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCaptured, result.Status)
}

func TestService_Capture_RejectsAlreadyVoided(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusVoided}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)

	_, err := svc.Capture(ctx, "auth-1", "cap-idem-1")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ErrAlreadyVoided, e)
}

func TestService_Capture_OptimisticLockRetryRereadsLatest(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusAuthorized}
	latest := &Authorization{AuthorizationID: "auth-1", Status: StatusCaptured}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)
	gw.EXPECT().Capture(ctx, "auth-1").Return(nil)
	repo.EXPECT().UpdateStatus(ctx, a).Return(apperr.ErrOptimisticLock)
	repo.EXPECT().GetByID(ctx, "auth-1").Return(latest, nil)

	result, err := svc.Capture(ctx, "auth-1", "cap-idem-1")
	require.NoError(t, err)
	assert.Same(t, latest, result)
}

func TestService_Void_FromAuthorized(t *testing.T) {
	svc, gw, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusAuthorized}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)
	gw.EXPECT().Void(ctx, "auth-1").Return(nil)
	repo.EXPECT().UpdateStatus(ctx, a).Return(nil)

	result, err := svc.Void(ctx, "auth-1", "void-idem-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVoided, result.Status)
}

func TestService_Void_AlreadyVoidedIsIdempotent(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusVoided}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)

	result, err := svc.Void(ctx, "auth-1", "void-idem-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVoided, result.Status)
}

func TestService_Void_RejectsAlreadyCaptured(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	a := &Authorization{AuthorizationID: "auth-1", Status: StatusCaptured}

	repo.EXPECT().GetByID(ctx, "auth-1").Return(a, nil)

	_, err := svc.Void(ctx, "auth-1", "void-idem-1")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ErrAlreadyCaptured, e)
}

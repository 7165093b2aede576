package saga

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/ledger"
	"github.com/cypherlabdev/orderflow/internal/mocks"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

func newTestCompensator(t *testing.T) (*Compensator, *mocks.MockStepClient, *mocks.MockCompensationAlerter) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockStepClient(ctrl)
	alerter := mocks.NewMockCompensationAlerter(ctrl)
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	return NewCompensator(client, alerter, metrics, zerolog.Nop()), client, alerter
}

func TestCompensator_Compensate_VoidsPaymentOnlyWhenNotYetCaptured(t *testing.T) {
	c, client, _ := newTestCompensator(t)
	ctx := context.Background()
	authID := "auth-1"
	orderID := uuid.New()
	in := CompensationInput{
		OrderLedgerID:          uuid.New(),
		OrderID:                &orderID,
		PaymentAuthorizationID: &authID,
		LastSuccessfulStatus:   ledger.StatusOrderCreated,
	}

	client.EXPECT().VoidPayment(ctx, gomock.Any()).Return(nil)
	client.EXPECT().CancelOrder(ctx, orderID).Return(nil)

	result := c.Compensate(ctx, in)
	assert.Equal(t, CompensationCompleted, result.Outcome)
	assert.ElementsMatch(t, []string{"void_payment", "cancel_order"}, result.StepsExecuted)
}

func TestCompensator_Compensate_ReleasesInventoryAfterCapture(t *testing.T) {
	c, client, _ := newTestCompensator(t)
	ctx := context.Background()
	authID := "auth-1"
	orderID := uuid.New()
	in := CompensationInput{
		OrderLedgerID:          uuid.New(),
		OrderID:                &orderID,
		PaymentAuthorizationID: &authID,
		LastSuccessfulStatus:   ledger.StatusPaymentCaptured,
	}

	// payment already captured: void_payment does not apply.
	client.EXPECT().ReleaseInventory(ctx, orderID).Return(nil)
	client.EXPECT().CancelOrder(ctx, orderID).Return(nil)

	result := c.Compensate(ctx, in)
	assert.Equal(t, CompensationCompleted, result.Outcome)
	assert.ElementsMatch(t, []string{"release_inventory", "cancel_order"}, result.StepsExecuted)
}

func TestCompensator_Compensate_OnlyVoidsPaymentBeforeOrderCreated(t *testing.T) {
	c, client, _ := newTestCompensator(t)
	ctx := context.Background()
	authID := "auth-1"
	in := CompensationInput{
		OrderLedgerID:          uuid.New(),
		OrderID:                nil,
		PaymentAuthorizationID: &authID,
		LastSuccessfulStatus:   ledger.StatusAuthorized,
	}

	client.EXPECT().VoidPayment(ctx, gomock.Any()).Return(nil)

	result := c.Compensate(ctx, in)
	assert.Equal(t, CompensationCompleted, result.Outcome)
	assert.Equal(t, []string{"void_payment"}, result.StepsExecuted)
}

func TestCompensator_Compensate_AlreadyVoidedIsNotAFailure(t *testing.T) {
	c, client, _ := newTestCompensator(t)
	ctx := context.Background()
	authID := "auth-1"
	orderID := uuid.New()
	in := CompensationInput{
		OrderLedgerID:          uuid.New(),
		OrderID:                &orderID,
		PaymentAuthorizationID: &authID,
		LastSuccessfulStatus:   ledger.StatusOrderCreated,
	}

	client.EXPECT().VoidPayment(ctx, gomock.Any()).Return(apperr.ErrAlreadyVoided)
	client.EXPECT().CancelOrder(ctx, orderID).Return(nil)

	result := c.Compensate(ctx, in)
	assert.Equal(t, CompensationCompleted, result.Outcome)
}

func TestCompensator_Compensate_NeverStopsOnPartialFailureAndAlerts(t *testing.T) {
	c, client, alerter := newTestCompensator(t)
	ctx := context.Background()
	authID := "auth-1"
	orderID := uuid.New()
	ledgerID := uuid.New()
	in := CompensationInput{
		OrderLedgerID:          ledgerID,
		OrderID:                &orderID,
		PaymentAuthorizationID: &authID,
		LastSuccessfulStatus:   ledger.StatusPaymentCaptured,
	}

	client.EXPECT().ReleaseInventory(ctx, orderID).Return(apperr.New(apperr.KindTransient, "service_connection_error", "inventory unreachable"))
	client.EXPECT().CancelOrder(ctx, orderID).Return(nil)
	alerter.EXPECT().Alert(ctx, ledgerID, gomock.Any())

	result := c.Compensate(ctx, in)
	assert.Equal(t, CompensationFailed, result.Outcome)
	assert.Contains(t, result.Errors, "release_inventory")
	assert.ElementsMatch(t, []string{"release_inventory", "cancel_order"}, result.StepsExecuted)
}

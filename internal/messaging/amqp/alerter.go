// Package amqp publishes best-effort operational alerts over RabbitMQ,
// grounded on the reference RabbitMQ wrapper's connect/exchange-declare/
// publish shape, narrowed to the one concern the saga executor needs: a
// dead-letter notification when compensation cannot fully undo a saga.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeName = "orderflow.alerts"
	routingKey   = "compensation.failed"
)

// Alerter publishes a CompensationAlerter-shaped message to a durable
// topic exchange for human follow-up; it satisfies saga.CompensationAlerter
// without saga importing this package (saga depends only on the
// interface, avoiding a saga<->messaging import cycle).
type Alerter struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  zerolog.Logger
}

// NewAlerter dials url and declares the durable topic exchange
// compensation alerts are published to.
func NewAlerter(url string, logger zerolog.Logger) (*Alerter, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare alerts exchange: %w", err)
	}

	return &Alerter{
		conn:    conn,
		channel: ch,
		logger:  logger.With().Str("component", "compensation_alerter").Logger(),
	}, nil
}

type alertMessage struct {
	OrderLedgerID string            `json:"order_ledger_id"`
	Errors        map[string]string `json:"errors"`
}

// Alert publishes a dead-letter notice for a ledger whose compensation
// left at least one step un-undone. Publishing itself is best-effort: a
// failure here is logged, never escalated — the ledger has already been
// finalised to FAILED regardless of whether this alert is delivered.
func (a *Alerter) Alert(ctx context.Context, orderLedgerID uuid.UUID, errs map[string]string) {
	body, err := json.Marshal(alertMessage{OrderLedgerID: orderLedgerID.String(), Errors: errs})
	if err != nil {
		a.logger.Error().Err(err).Str("order_ledger_id", orderLedgerID.String()).
			Msg("failed to marshal compensation alert")
		return
	}

	err = a.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	})
	if err != nil {
		a.logger.Error().Err(err).Str("order_ledger_id", orderLedgerID.String()).
			Msg("failed to publish compensation alert")
		return
	}

	a.logger.Warn().
		Str("order_ledger_id", orderLedgerID.String()).
		Int("failed_steps", len(errs)).
		Msg("compensation alert published")
}

// Close releases the channel and connection.
func (a *Alerter) Close() error {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

package outbox

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// AnalyticsPublisher fans out terminal outbox events to a Kafka topic
// for downstream analytics consumers. This is a supplemental feature
// (not part of the saga's delivery path) grounded directly on the
// teacher's OutboxPublisher — same sync-producer, same header shape —
// repurposed as a best-effort side-channel: a publish failure here is
// logged and dropped, never retried or escalated, since it does not
// participate in saga correctness (spec.md's "exactly-once delivery to
// external consumers" is explicitly out of scope).
type AnalyticsPublisher struct {
	producer sarama.SyncProducer
	logger   zerolog.Logger
	topic    string
}

func NewAnalyticsPublisher(producer sarama.SyncProducer, logger zerolog.Logger) *AnalyticsPublisher {
	return &AnalyticsPublisher{
		producer: producer,
		logger:   logger.With().Str("component", "outbox_analytics_publisher").Logger(),
		topic:    "orderflow.events",
	}
}

// Publish sends a fire-and-forget copy of a terminally-handled event.
func (p *AnalyticsPublisher) Publish(_ context.Context, e *Event) {
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.AggregateID),
		Value: sarama.ByteEncoder(e.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(e.EventType)},
			{Key: []byte("aggregate_type"), Value: []byte(e.AggregateType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("event_id", e.ID).
			Str("event_type", e.EventType).
			Msg("analytics fan-out publish failed, dropping")
		return
	}

	p.logger.Debug().
		Str("event_id", e.ID).
		Str("event_type", e.EventType).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("published event to analytics topic")
}

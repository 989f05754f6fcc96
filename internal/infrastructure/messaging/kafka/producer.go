package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// Producer publishes refresh events.  Events are keyed by entity type so
// per-type ordering is preserved across partitions.
type Producer struct {
	writer *kafka.Writer
	logger logging.Logger
}

// NewProducer creates a Producer for the refresh topic.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.RefreshTopic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer, logger: log.Named("refresh-producer")}
}

// PublishRefresh emits one refresh event.
func (p *Producer) PublishRefresh(ctx context.Context, event RefreshEvent) error {
	payload, err := event.Encode()
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.EntityType),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeExternalService, "publish refresh event")
	}
	p.logger.Debug("refresh event published",
		logging.String("id", event.ID),
		logging.String("entity_type", string(event.EntityType)),
	)
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

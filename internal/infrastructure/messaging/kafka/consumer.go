package kafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
)

// RefreshHandler processes one refresh event.  Returning an error leaves the
// offset uncommitted so the event is redelivered.
type RefreshHandler func(ctx context.Context, event RefreshEvent) error

// Consumer reads refresh events within a consumer group.
type Consumer struct {
	reader  *kafka.Reader
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewConsumer creates a Consumer for the refresh topic.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger, metrics *prometheus.AppMetrics) *Consumer {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.RefreshTopic,
		CommitInterval: cfg.CommitInterval,
	})
	return &Consumer{reader: reader, logger: log.Named("refresh-consumer"), metrics: metrics}
}

// Run consumes until the context is cancelled.  Malformed events are logged
// and committed so a poison message cannot wedge the group.
func (c *Consumer) Run(ctx context.Context, handler RefreshHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		event, err := DecodeRefreshEvent(msg.Value)
		if err != nil {
			c.logger.Warn("dropping malformed refresh event",
				logging.Int64("offset", msg.Offset), logging.Err(err))
			c.metrics.RefreshEventsTotal.WithLabelValues("unknown", "malformed").Inc()
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, event); err != nil {
			c.logger.Error("refresh handler failed",
				logging.String("id", event.ID), logging.Err(err))
			c.metrics.RefreshEventsTotal.WithLabelValues(string(event.EntityType), "failed").Inc()
			continue
		}

		c.metrics.RefreshEventsTotal.WithLabelValues(string(event.EntityType), "handled").Inc()
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close shuts the reader down.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

package kafka

import (
	"context"
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var (
	messagesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed.",
	}, []string{"topic", "status"})
)

// Handler processes one message payload. A nil return commits the message; an
// error leaves it uncommitted for redelivery.
type Handler func(ctx context.Context, payload []byte) error

// Consumer reads identity sync messages from a topic and feeds them to a
// handler. Offsets are committed per message, only after the handler accepts
// it.
type Consumer struct {
	reader  *kafka.Reader
	handler Handler
	logger  zerolog.Logger
}

// NewConsumer creates a new Consumer in the given consumer group.
func NewConsumer(brokers []string, topic, groupID string, handler Handler, logger zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Start consumes messages until the context is cancelled or the reader is
// closed. Handler failures are logged and the message is left uncommitted, so
// the group redelivers it.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if err := c.handler(ctx, msg.Value); err != nil {
			messagesConsumed.WithLabelValues(msg.Topic, "failed").Inc()
			c.logger.Error().
				Err(err).
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("message handling failed, leaving uncommitted")

			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			messagesConsumed.WithLabelValues(msg.Topic, "failed").Inc()
			c.logger.Error().
				Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("offset commit failed")

			continue
		}

		messagesConsumed.WithLabelValues(msg.Topic, "consumed").Inc()
	}
}

// Close closes the underlying reader and its group membership.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

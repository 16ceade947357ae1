package kafka

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one message. A returned error is logged and the
// message is not redelivered.
type MessageHandler func(ctx context.Context, key, value []byte) error

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads a topic as part of a consumer group. Offsets are committed
// by the reader as messages are read.
type Consumer struct {
	reader messageReader
	logger *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(reader, logger.With("component", "kafka-consumer", "topic", topic, "group", groupID))
}

func newConsumer(reader messageReader, logger *slog.Logger) *Consumer {
	return &Consumer{reader: reader, logger: logger}
}

// Consume hands every message to handler until ctx is done, then returns
// ctx.Err(). Read failures are logged and reading continues.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for ctx.Err() == nil {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			c.logger.ErrorContext(ctx, "error reading message", "error", err)
			continue
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			c.logger.ErrorContext(ctx, "error handling message",
				"key", string(msg.Key), "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
	return ctx.Err()
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
)

// Producer publishes customer events through an async Writer.
// Publish returns once the message is queued; delivery errors are reported to onError.
type Producer struct {
	w *kafka.Writer
}

func NewProducer(c config.KafkaConfig, onError func(error)) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(_ []kafka.Message, err error) {
			if err != nil && onError != nil {
				onError(err)
			}
		},
	}
	return &Producer{w: w}
}

func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (p *Producer) Close() error { return p.w.Close() }

package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
)

// Consumer reads customer events for one consumer group.
type Consumer struct {
	r *kafka.Reader
}

// NewConsumer applies defaults for unset sizes: 1KB min, 10MB max, 1s commit interval.
func NewConsumer(c config.KafkaConfig) *Consumer {
	minBytes := c.MinBytes
	if minBytes <= 0 {
		minBytes = 1 << 10
	}
	maxBytes := c.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	commit := time.Duration(c.CommitInterval) * time.Millisecond
	if commit <= 0 {
		commit = time.Second
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		CommitInterval: commit,
		MaxWait:        250 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{r: r}
}

type Message = kafka.Message

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	return c.r.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.r.Close() }

package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/kafka"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/metrics"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
)

// Source is the consuming side of the customer-events topic.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// NotifierKafka:
// - fetches notification envelopes from Kafka,
// - posts each event to the URL captured when it was queued,
// - commits every message whatever the outcome (the notification is best-effort).
type NotifierKafka struct {
	Consumer Source
	Poster   webhook.Poster

	Workers int           // goroutines posting webhooks
	Timeout time.Duration // per webhook call
}

func NewNotifierKafka(consumer Source, poster webhook.Poster, timeout time.Duration) *NotifierKafka {
	return &NotifierKafka{
		Consumer: consumer,
		Poster:   poster,
		Workers:  4,
		Timeout:  timeout,
	}
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *NotifierKafka) Run(ctx context.Context) error {
	if w.Workers <= 0 {
		w.Workers = 4
	}
	if w.Timeout <= 0 {
		w.Timeout = 10 * time.Second
	}

	msgCh := make(chan kafka.Message, w.Workers*2)

	go func() {
		defer close(msgCh)
		for {
			m, err := w.Consumer.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Log.Warn("kafka fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(200 * time.Millisecond):
				}
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan struct{}, w.Workers)
	for i := 0; i < w.Workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for m := range msgCh {
				w.processOne(ctx, m)
			}
		}()
	}

	for i := 0; i < w.Workers; i++ {
		<-done
	}
	return nil
}

func (w *NotifierKafka) processOne(ctx context.Context, m kafka.Message) {
	var env model.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil || env.URL == "" {
		// poison message: commit and skip
		logger.Log.Warn("bad notification envelope", zap.Int64("offset", m.Offset), zap.Error(err))
		w.commit(ctx, m)
		return
	}

	pctx, cancel := context.WithTimeout(ctx, w.Timeout)
	err := w.Poster.Post(pctx, env.URL, env.Event)
	cancel()

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		logger.Log.Debug("notification delivery failed",
			zap.String("id", env.ID),
			zap.String("customer_id", env.Event.Customer.ID),
			zap.Error(err),
		)
	} else {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultSent).Inc()
	}

	w.commit(ctx, m)
}

func (w *NotifierKafka) commit(ctx context.Context, m kafka.Message) {
	if err := w.Consumer.Commit(ctx, m); err != nil && ctx.Err() == nil {
		logger.Log.Warn("kafka commit failed", zap.Error(err))
	}
}

// Package notifier sends the best-effort new-customer notification.
//
// Every Notifier is fire-and-forget: Notify never blocks on the webhook and never
// reports its outcome to the caller. A failed or skipped notification is logged and
// counted, nothing more. Registration must not depend on it.
package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/metrics"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/util"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
)

type Notifier interface {
	Notify(ctx context.Context, c model.Customer)
}

// URLSource resolves the target URL at send time. "" means notifications are off.
type URLSource interface {
	NotifyURL(ctx context.Context) (string, error)
}

// Publisher is the broker side of the Kafka notifier.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type Nop struct{}

func (Nop) Notify(context.Context, model.Customer) {}

func NewEvent(c model.Customer, now time.Time) model.CustomerEvent {
	return model.CustomerEvent{Event: model.EventNewCustomer, Customer: c, Timestamp: now}
}

// Direct posts the event from a detached goroutine bounded by timeout.
type Direct struct {
	poster  webhook.Poster
	urls    URLSource
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewDirect(poster webhook.Poster, urls URLSource, timeout time.Duration) *Direct {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Direct{poster: poster, urls: urls, timeout: timeout, now: time.Now}
}

// Notify returns immediately. The request ctx is not used so that the send outlives the request.
func (d *Direct) Notify(_ context.Context, c model.Customer) {
	ev := NewEvent(c, d.now())

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		url, err := d.urls.NotifyURL(ctx)
		if err != nil {
			logger.Log.Debug("notify url lookup failed", zap.Error(err))
			metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
			return
		}
		if url == "" {
			return
		}

		if err := d.poster.Post(ctx, url, ev); err != nil {
			logger.Log.Debug("new customer notification failed", zap.String("customer_id", c.ID), zap.Error(err))
			metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
			return
		}
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultSent).Inc()
	}()
}

// Wait blocks until in-flight notifications finish; used on shutdown.
func (d *Direct) Wait() { d.wg.Wait() }

// Kafka hands the event to the notifier worker through a topic.
type Kafka struct {
	pub  Publisher
	urls URLSource
	now  func() time.Time
}

func NewKafka(pub Publisher, urls URLSource) *Kafka {
	return &Kafka{pub: pub, urls: urls, now: time.Now}
}

// Notify resolves the URL now so a later settings change does not redirect queued events.
func (k *Kafka) Notify(ctx context.Context, c model.Customer) {
	url, err := k.urls.NotifyURL(ctx)
	if err != nil {
		logger.Log.Debug("notify url lookup failed", zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return
	}
	if url == "" {
		return
	}

	env := model.Envelope{ID: util.NewID(), URL: url, Event: NewEvent(c, k.now())}
	b, err := json.Marshal(env)
	if err != nil {
		logger.Log.Warn("encode notification envelope", zap.Error(err))
		return
	}

	if err := k.pub.Publish(ctx, []byte(c.ID), b); err != nil {
		logger.Log.Debug("queue notification failed", zap.String("customer_id", c.ID), zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.StageQueued).Inc()
}

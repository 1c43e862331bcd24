package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbershop_dispatch_messages_total",
			Help: "Dispatch webhook deliveries by result",
		},
		[]string{"result"}, // sent|failed
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbershop_notifications_total",
			Help: "New-customer notifications by stage",
		},
		[]string{"stage"}, // queued|sent|failed
	)

	CustomersCached = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "barbershop_customers_cached",
			Help: "Customers held in the in-memory list",
		},
	)
)

const (
	ResultSent   = "sent"
	ResultFailed = "failed"
	StageQueued  = "queued"
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		DispatchMessagesTotal,
		NotificationsTotal,
		CustomersCached,
	)
}

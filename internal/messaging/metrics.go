package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_messages_sent_total",
			Help: "Messages persisted by transport",
		},
		[]string{"transport"},
	)

	realtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_realtime_connections",
			Help: "Currently registered realtime connections",
		},
	)

	realtimeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_realtime_errors_total",
			Help: "Error events sent to realtime clients by reason",
		},
		[]string{"reason"},
	)
)

const (
	transportREST      = "rest"
	transportRealtime  = "realtime"
	reasonRateLimited  = "rate_limited"
	reasonInvalidEvent = "invalid_event"
	reasonDomain       = "domain"
	reasonInternal     = "internal"
)

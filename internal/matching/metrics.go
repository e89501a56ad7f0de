package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_requests_total",
			Help: "Match requests by outcome",
		},
		[]string{"outcome"},
	)

	matchResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_responses_total",
			Help: "Explicit match responses by resulting status",
		},
		[]string{"status"},
	)

	matchesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_deleted_total",
			Help: "Total number of match records deleted",
		},
	)
)

const (
	outcomeCreated      = "created"
	outcomeReciprocated = "reciprocated"
	outcomeExisting     = "existing"
)

func recordRequest(outcome string) {
	matchRequestsTotal.WithLabelValues(outcome).Inc()
}

func recordResponse(status Status) {
	matchResponsesTotal.WithLabelValues(string(status)).Inc()
}

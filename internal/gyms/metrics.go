package gyms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gyms_match_scores",
			Help:    "Distribution of gym match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	recommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gyms_recommendations_served_total",
			Help: "Total number of recommendation lists served",
		},
	)

	savedGymsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gyms_saved_total",
			Help: "Favourite changes by action",
		},
		[]string{"action"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gyms_catalogue_cache_lookups_total",
			Help: "Gym catalogue cache lookups by result",
		},
		[]string{"result"},
	)
)

func observeScore(score int) {
	matchScores.Observe(float64(score))
}

func RecordRecommendation() {
	recommendationsServed.Inc()
}

func RecordSave(action string) {
	savedGymsTotal.WithLabelValues(action).Inc()
}

package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// served path label values
const (
	PathVector    = "vector"
	PathHeuristic = "heuristic"
	PathTrending  = "trending"
	PathRecent    = "recent"
	PathTopRated  = "top_rated"
	PathEmpty     = "empty"
	PathError     = "error"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Count of recommendation lists served, by the path that produced them.",
		},
		[]string{"path"},
	)

	RecommendationItemsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_items_returned",
			Help:    "Number of items in each served recommendation list.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 12},
		},
		[]string{"path"},
	)
)

func init() {
	prometheus.MustRegister(RecommendationsServedTotal, RecommendationItemsReturned)
}

func observeServed(path string, n int) {
	RecommendationsServedTotal.WithLabelValues(path).Inc()
	RecommendationItemsReturned.WithLabelValues(path).Observe(float64(n))
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendations HTTP handler, by caller kind
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reco_handler_latency_seconds",
		Help:    "Latency of the recommendations handler",
		Buckets: prometheus.DefBuckets,
	}, []string{"caller"})

	// Sparse lists the handler tried to backfill, by outcome
	SparseBackfillTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_sparse_backfill_total",
		Help: "Sparse recommendation lists considered for top-rated backfill",
	}, []string{"outcome"})

	InteractionsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_interactions_recorded_total",
		Help: "Interactions appended through the API",
	}, []string{"type"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		SparseBackfillTotal,
		InteractionsRecorded,
	)
}

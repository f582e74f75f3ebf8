package metrics

import "github.com/prometheus/client_golang/prometheus"

// Aggregation Prometheus metrics.
var (
	AggregationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmrank",
			Name:      "aggregations_total",
			Help:      "Total number of aggregation calls",
		},
		[]string{"strategy", "status"}, // status: "ok" / "empty" / "error"
	)

	AggregationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mmrank",
			Name:      "aggregation_duration_seconds",
			Help:      "Aggregation duration in seconds, embedding calls included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	AggregationPoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mmrank",
			Name:      "aggregation_pool_size",
			Help:      "Number of distinct candidates entering selection",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	EmbeddingsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmrank",
			Name:      "embeddings_resolved_total",
			Help:      "Document embeddings resolved per strategy and source",
		},
		[]string{"strategy", "source"}, // source: "existing" / "generated"
	)
)

var aggMetricsRegistered bool

// RegisterAggregationMetrics registers aggregation metrics. Must be called once from main.
func RegisterAggregationMetrics() {
	if aggMetricsRegistered {
		return
	}
	prometheus.MustRegister(AggregationsTotal)
	prometheus.MustRegister(AggregationDuration)
	prometheus.MustRegister(AggregationPoolSize)
	prometheus.MustRegister(EmbeddingsResolvedTotal)
	aggMetricsRegistered = true
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching engine Prometheus metrics.
var (
	TrainingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmatch",
			Name:      "training_runs_total",
			Help:      "Total number of lexical model training runs",
		},
		[]string{"result"}, // "success" / "insufficient_data" / "error"
	)

	ModelCorpusSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mealmatch",
			Name:      "model_corpus_size",
			Help:      "Number of recipes in the served model artifact",
		},
	)

	ModelVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mealmatch",
			Name:      "model_vocabulary_size",
			Help:      "Number of distinct tokens in the served model artifact",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mealmatch",
			Name:      "search_duration_seconds",
			Help:      "Ingredient search duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	RecommendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mealmatch",
			Name:      "recommend_duration_seconds",
			Help:      "Profile recommendation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
	)

	RecommendCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmatch",
			Name:      "recommend_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	ArtifactStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmatch",
			Name:      "artifact_store_errors_total",
			Help:      "Total artifact store failures",
		},
		[]string{"op"}, // "save" / "load"
	)
)

var matchingMetricsRegistered bool

// RegisterMatchingMetrics registers the matching engine metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchingMetricsRegistered {
		return
	}
	prometheus.MustRegister(TrainingRunsTotal)
	prometheus.MustRegister(ModelCorpusSize)
	prometheus.MustRegister(ModelVocabularySize)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(RecommendDuration)
	prometheus.MustRegister(RecommendCacheTotal)
	prometheus.MustRegister(ArtifactStoreErrorsTotal)
	matchingMetricsRegistered = true
}

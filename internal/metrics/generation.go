package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation and retrieval Prometheus metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generative model requests",
		},
		[]string{"provider", "model", "status"}, // status: success, network, timeout, empty
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generative model request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	GenerationOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation requests by outcome status and parse stage",
		},
		[]string{"status", "stage"},
	)

	ValidatorCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validator_candidates_total",
			Help:      "Raw generator candidates by verdict",
		},
		[]string{"verdict"}, // accepted or a reject reason
	)

	RetrievalTopScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_top_score",
			Help:      "Cosine similarity of the best retrieval hit",
			Buckets:   prometheus.LinearBuckets(-0.2, 0.1, 13),
		},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Number of documents in the retrieval index",
		},
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			GenerationRequestsTotal,
			GenerationRequestDuration,
			GenerationOutcomesTotal,
			ValidatorCandidatesTotal,
			RetrievalTopScore,
			IndexDocuments,
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
		)
	})
}

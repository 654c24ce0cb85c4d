package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for prediction queries.
type Metrics struct {
	Predictions        *prometheus.CounterVec // labels: label={rain,no_rain}
	PredictionFailures *prometheus.CounterVec // labels: reason={no_analogues,feature_mismatch,other}
	Probability        prometheus.Histogram
	QueryDuration      *prometheus.HistogramVec // labels: query={date,range,month}

	// Analogue cache metrics.
	AnalogueCache *prometheus.CounterVec // labels: result={hit,miss}

	// Sink metrics.
	SinkErrors *prometheus.CounterVec // labels: sink
}

// NewMetricsWith creates all metrics and registers them with reg. Commands
// pass a fresh registry per run; prometheus.DefaultRegisterer also works.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Predictions,
		m.PredictionFailures,
		m.Probability,
		m.QueryDuration,
		m.AnalogueCache,
		m.SinkErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raincast",
			Name:      "predictions_total",
			Help:      "Daily predictions made, by predicted label.",
		}, []string{"label"}),
		PredictionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raincast",
			Name:      "prediction_failures_total",
			Help:      "Dates that could not be predicted, by reason.",
		}, []string{"reason"}),
		Probability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raincast",
			Name:      "rain_probability",
			Help:      "Distribution of predicted rain probabilities.",
			Buckets:   []float64{0.2, 0.4, 0.6, 0.8, 1},
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "raincast",
			Name:      "query_duration_seconds",
			Help:      "Duration of a prediction query.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"query"}),
		AnalogueCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raincast",
			Name:      "analogue_cache_total",
			Help:      "Analogue cache lookups by result.",
		}, []string{"result"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raincast",
			Name:      "sink_errors_total",
			Help:      "Failed deliveries of prediction batches, by sink.",
		}, []string{"sink"}),
	}
}

// WriteTextfile dumps everything g gathers in the node_exporter textfile
// format. The file is written atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

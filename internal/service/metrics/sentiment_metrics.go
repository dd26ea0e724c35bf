package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "senticast",
			Subsystem: "sentiment",
			Name:      "endpoint_latency_seconds",
			Help:      "Latency of sentiment classifier calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	EndpointFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "senticast",
			Subsystem: "sentiment",
			Name:      "endpoint_failures_total",
			Help:      "Failed sentiment classifier calls by endpoint",
		},
		[]string{"endpoint"},
	)

	Consensus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "senticast",
			Subsystem: "sentiment",
			Name:      "consensus_total",
			Help:      "Overall sentiment of completed classifications",
		},
		[]string{"overall"},
	)
)

// Register adds the sentiment collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointFailures, Consensus)
	})
}

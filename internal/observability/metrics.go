package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	synthesisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiktts_synthesis_requests_total",
		Help: "Total number of synthesis requests",
	}, []string{"status"})

	synthesisLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tiktts_synthesis_latency_seconds",
		Help:    "End-to-end synthesis latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	})

	synthesisChunks = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tiktts_synthesis_chunks",
		Help:    "Number of upstream requests a synthesis was split into",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	audioBytesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiktts_audio_bytes_total",
		Help: "Total audio bytes emitted to callers",
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiktts_errors_total",
		Help: "Total number of errors",
	}, []string{"kind"})
)

// SynthesisMetrics tracks one synthesis request on the server facade.
type SynthesisMetrics struct {
	startTime time.Time
}

// StartSynthesis begins tracking a synthesis request.
func StartSynthesis() *SynthesisMetrics {
	return &SynthesisMetrics{startTime: time.Now()}
}

// End records the outcome of a synthesis request.
func (m *SynthesisMetrics) End(success bool, chunks int, audioBytes int) {
	synthesisLatency.Observe(time.Since(m.startTime).Seconds())
	synthesisChunks.Observe(float64(chunks))

	status := "success"
	if !success {
		status = "error"
	}
	synthesisRequests.WithLabelValues(status).Inc()

	if audioBytes > 0 {
		audioBytesEmitted.Add(float64(audioBytes))
	}
}

// RecordError records an error by kind (e.g. "upstream", "transport", "decode").
func RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}

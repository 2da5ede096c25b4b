// Package metrics exposes pipeline and translation counters for Prometheus.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/signspeak/internal/translator"
)

// Metrics holds all application metrics
type Metrics struct {
	Frames          prometheus.Counter
	FrameErrors     prometheus.Counter
	Hands           prometheus.Counter
	Classifications *prometheus.CounterVec
	Tokens          *prometheus.CounterVec
	Clears          prometheus.Counter
	FrameLatency    prometheus.Histogram

	// Live feed subscribers
	Clients atomic.Int64

	registry *prometheus.Registry
}

// New creates a new Metrics instance with its own registry
func New() *Metrics {
	m := &Metrics{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signspeak_frames_processed_total",
			Help: "Total frames run through the classifier",
		}),
		FrameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signspeak_frame_errors_total",
			Help: "Total frames skipped because capture or detection failed",
		}),
		Hands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signspeak_hands_detected_total",
			Help: "Total hands seen across all frames",
		}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signspeak_classifications_total",
			Help: "Per-frame classifications by gesture label",
		}, []string{"label"}),
		Tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signspeak_tokens_committed_total",
			Help: "Committed tokens by gesture label",
		}, []string{"gesture"}),
		Clears: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signspeak_clears_total",
			Help: "Number of times the transcript was cleared",
		}),
		FrameLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signspeak_frame_duration_seconds",
			Help:    "Time from hand detection to a stabilized frame result; frames posted with landmarks skip detection",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Frames,
		m.FrameErrors,
		m.Hands,
		m.Classifications,
		m.Tokens,
		m.Clears,
		m.FrameLatency,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "signspeak_live_clients",
			Help: "Connected live feed clients",
		}, func() float64 { return float64(m.Clients.Load()) }),
	)

	return m
}

// ObserveFrame records one processed frame and how long it took.
func (m *Metrics) ObserveFrame(res translator.FrameResult, took time.Duration) {
	m.Frames.Inc()
	m.Hands.Add(float64(len(res.Hands)))
	for _, h := range res.Hands {
		m.Classifications.WithLabelValues(h.Result.Label.String()).Inc()
	}
	m.FrameLatency.Observe(took.Seconds())
}

// ObserveToken records a committed token.
func (m *Metrics) ObserveToken(tok translator.Token) {
	m.Tokens.WithLabelValues(tok.Gesture.String()).Inc()
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

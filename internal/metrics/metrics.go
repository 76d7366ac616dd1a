// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the game counters exported at /metrics.
type Metrics struct {
	SessionsStarted prometheus.Counter
	RoundsStarted   *prometheus.CounterVec // by difficulty
	Guesses         *prometheus.CounterVec // by difficulty, outcome
	GamesCompleted  *prometheus.CounterVec // by difficulty
	RequestLatency  *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// Guess outcomes.
const (
	OutcomeCorrect   = "correct"
	OutcomeWrong     = "wrong"
	OutcomeExhausted = "exhausted"
)

// NewMetrics registers the counters on reg. Passing nil uses a fresh
// registry, which keeps tests independent of the global default.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions opened by setting a username",
		}),
		RoundsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Rounds started, including practice previews",
		}, []string{"difficulty"}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guesses submitted",
		}, []string{"difficulty", "outcome"}),
		GamesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Games played through to the summary",
		}, []string{"difficulty"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}, []string{"method", "status"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.SessionsStarted,
		m.RoundsStarted,
		m.Guesses,
		m.GamesCompleted,
		m.RequestLatency,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

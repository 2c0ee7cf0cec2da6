package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/airsketch/internal/gesture"
)

// Recognition outcome label values.
const (
	OutcomeMatched      = "matched"
	OutcomeBelowScore   = "below_threshold"
	OutcomeNoTemplates  = "no_templates"
	OutcomeInsufficient = "insufficient_points"
)

var scoreBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1}

// Manager owns the recognition metrics. It implements gesture.Observer.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	registry        *prometheus.Registry

	recognitions *prometheus.CounterVec
	score        prometheus.Histogram
	duration     prometheus.Histogram
	templates    prometheus.Gauge
	degenerate   prometheus.Counter
	httpRequests *prometheus.CounterVec
}

var _ gesture.Observer = (*Manager)(nil)

// NewManager creates a Manager. Without WithPrometheusRegistry it uses a
// fresh registry so several managers can coexist in tests.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "airsketch",
		subsystem:       "gesture",
		durationBuckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recognitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recognitions_total",
		Help:      "Total number of recognition attempts by outcome",
	}, []string{"outcome"})

	m.score = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recognition_score",
		Help:      "Best template score of evaluated strokes",
		Buckets:   scoreBuckets,
	})

	m.duration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recognition_duration_seconds",
		Help:      "Time spent in Recognize",
		Buckets:   m.durationBuckets,
	})

	m.templates = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "templates",
		Help:      "Number of templates in the store",
	})

	m.degenerate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degenerate_strokes_total",
		Help:      "Strokes whose bounding box needed the scale clamp",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route and status class",
	}, []string{"route", "code"})
}

// ObserveRecognition records one Recognize call.
func (m *Manager) ObserveRecognition(r gesture.Result, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
	m.recognitions.WithLabelValues(Outcome(r)).Inc()

	if r.Candidate != nil {
		m.score.Observe(r.Score)
	}
	if r.Degenerate {
		m.degenerate.Inc()
	}
}

// ObserveTemplates updates the template gauge.
func (m *Manager) ObserveTemplates(count int) {
	m.templates.Set(float64(count))
}

// ObserveHTTP counts an API request.
func (m *Manager) ObserveHTTP(route string, status int) {
	m.httpRequests.WithLabelValues(route, statusClass(status)).Inc()
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a result into a recognitions_total label value.
func Outcome(r gesture.Result) string {
	switch {
	case r.Matched():
		return OutcomeMatched
	case errors.Is(r.Reason, gesture.ErrInsufficientPoints):
		return OutcomeInsufficient
	case errors.Is(r.Reason, gesture.ErrNoTemplates):
		return OutcomeNoTemplates
	default:
		return OutcomeBelowScore
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

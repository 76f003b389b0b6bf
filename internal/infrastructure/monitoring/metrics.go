package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	ScoresCalculated    *prometheus.CounterVec
	ScoreLatency        *prometheus.HistogramVec
	CacheAccesses       *prometheus.CounterVec
	AlertTransitions    *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer registers the metrics with reg, so tests can use a private registry.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScoresCalculated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pslrisk_scores_calculated_total",
				Help: "Total number of computed risk scores.",
			},
			[]string{"risk_level"},
		),
		ScoreLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pslrisk_score_calculation_seconds",
				Help:    "Latency of risk score computations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"risk_level"},
		),
		CacheAccesses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pslrisk_score_cache_requests_total",
				Help: "Score cache lookups by result.",
			},
			[]string{"result"},
		),
		AlertTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pslrisk_risk_alerts_total",
				Help: "Risk alert transitions by type and action.",
			},
			[]string{"type", "action"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pslrisk_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pslrisk_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordScoreCalculated records one computed score.
func (m *Metrics) RecordScoreCalculated(level constants.RiskLevel, duration time.Duration) {
	m.ScoresCalculated.WithLabelValues(string(level)).Inc()
	m.ScoreLatency.WithLabelValues(string(level)).Observe(duration.Seconds())
}

// RecordCacheAccess records a cache hit or miss.
func (m *Metrics) RecordCacheAccess(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheAccesses.WithLabelValues(result).Inc()
}

// RecordAlert records an alert transition.
func (m *Metrics) RecordAlert(alertType constants.AlertType, action constants.AlertAction) {
	m.AlertTransitions.WithLabelValues(string(alertType), string(action)).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

//Personal.AI order the ending

// Package metrics defines the Prometheus instrumentation for the
// assistant. Metrics are created against an injected registry so tests
// can use isolated registries, and every Record* method tolerates a nil
// receiver so callers with metrics disabled need no guards.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query metrics
	QueriesTotal         *prometheus.CounterVec
	QueryDurationSeconds *prometheus.HistogramVec

	// Intent metrics
	IntentConfidence *prometheus.HistogramVec

	// Retrieval metrics
	RetrievalDurationSeconds prometheus.Histogram
	RetrievalResults         prometheus.Histogram

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec
	LLMRetriesTotal    *prometheus.CounterVec
	LLMFallbacksTotal  *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// WebSocket metrics
	WSSessionsActive prometheus.Gauge
	WSMessagesTotal  *prometheus.CounterVec

	// Knowledge base metrics
	KnowledgeEntries prometheus.Gauge
	KnowledgeReloads *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		QueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_queries_total",
				Help: "Total number of answered queries by skill and status",
			},
			[]string{"skill", "status"}, // status: success, fallback, error
		),

		QueryDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_query_duration_seconds",
				Help:    "End-to-end query handling duration in seconds by skill",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30}, // template answers are sub-ms, LLM answers take seconds
			},
			[]string{"skill"},
		),

		IntentConfidence: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_intent_confidence",
				Help:    "Intent classification confidence by resolved skill",
				Buckets: []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0},
			},
			[]string{"skill"},
		),

		RetrievalDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assistant_retrieval_duration_seconds",
				Help:    "Knowledge retrieval duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),

		RetrievalResults: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assistant_retrieval_results",
				Help:    "Number of knowledge entries returned per retrieval",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),

		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_llm_requests_total",
				Help: "Total number of LLM requests by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_llm_duration_seconds",
				Help:    "LLM request duration in seconds by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),

		LLMRetriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_llm_retries_total",
				Help: "Total number of LLM retry attempts by provider",
			},
			[]string{"provider"},
		),

		LLMFallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_llm_fallbacks_total",
				Help: "Total number of cross-provider fallbacks",
			},
			[]string{"from", "to"},
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: ip, global
		),

		WSSessionsActive: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_ws_sessions_active",
				Help: "Number of currently open WebSocket sessions",
			},
		),

		WSMessagesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_ws_messages_total",
				Help: "Total number of WebSocket messages by direction",
			},
			[]string{"direction"}, // direction: in, out
		),

		KnowledgeEntries: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_knowledge_entries",
				Help: "Number of entries in the active knowledge snapshot",
			},
		),

		KnowledgeReloads: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_knowledge_reloads_total",
				Help: "Total number of knowledge snapshot reloads by status",
			},
			[]string{"status"}, // status: success, error, unchanged
		),
	}

	return m
}

// RecordQuery records a handled query with its resolved skill and status
func (m *Metrics) RecordQuery(skill, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(skill, status).Inc()
	m.QueryDurationSeconds.WithLabelValues(skill).Observe(duration.Seconds())
}

// RecordIntent records the confidence of an intent classification
func (m *Metrics) RecordIntent(skill string, confidence float64) {
	if m == nil {
		return
	}
	m.IntentConfidence.WithLabelValues(skill).Observe(confidence)
}

// RecordRetrieval records a knowledge retrieval
func (m *Metrics) RecordRetrieval(duration time.Duration, results int) {
	if m == nil {
		return
	}
	m.RetrievalDurationSeconds.Observe(duration.Seconds())
	m.RetrievalResults.Observe(float64(results))
}

// RecordLLMRequest records an LLM request outcome
func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordLLMRetry records a retry attempt against a provider
func (m *Metrics) RecordLLMRetry(provider string) {
	if m == nil {
		return
	}
	m.LLMRetriesTotal.WithLabelValues(provider).Inc()
}

// RecordLLMFallback records a cross-provider fallback
func (m *Metrics) RecordLLMFallback(from, to string) {
	if m == nil {
		return
	}
	m.LLMFallbacksTotal.WithLabelValues(from, to).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	if m == nil {
		return
	}
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// WSSessionOpened increments the active session gauge
func (m *Metrics) WSSessionOpened() {
	if m == nil {
		return
	}
	m.WSSessionsActive.Inc()
}

// WSSessionClosed decrements the active session gauge
func (m *Metrics) WSSessionClosed() {
	if m == nil {
		return
	}
	m.WSSessionsActive.Dec()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction string) {
	if m == nil {
		return
	}
	m.WSMessagesTotal.WithLabelValues(direction).Inc()
}

// SetKnowledgeEntries records the size of the active knowledge snapshot
func (m *Metrics) SetKnowledgeEntries(n int) {
	if m == nil {
		return
	}
	m.KnowledgeEntries.Set(float64(n))
}

// RecordKnowledgeReload records a snapshot reload attempt
func (m *Metrics) RecordKnowledgeReload(status string) {
	if m == nil {
		return
	}
	m.KnowledgeReloads.WithLabelValues(status).Inc()
}

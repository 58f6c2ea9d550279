package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway pipeline metrics.
var (
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_cache_hits_total",
		Help: "Answers served by reusing a cached entry",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_cache_misses_total",
		Help: "Requests that required new generation",
	})

	LLMCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_llm_calls_total",
		Help: "Model calls by logical service",
	}, []string{"llm_service"})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_errors_total",
		Help: "Pipeline errors by type",
	}, []string{"error_type"})

	Confidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gateway_confidence",
		Help:    "Top cache similarity per retrieval request",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	TierRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_tier_requests_total",
		Help: "Retrieval requests by selected tier",
	}, []string{"tier"})
)

// Tutoring graph cache metrics.
var (
	InteractionCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interaction_cache_hits_total",
		Help: "Tutoring turns answered from a cached branch",
	})

	InteractionCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interaction_cache_misses_total",
		Help: "Tutoring turns that generated a new branch",
	})

	InteractionDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interaction_depth",
		Help:    "Depth of newly stored interaction nodes",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
)

// Session lifecycle metrics.
var (
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_created_total",
		Help: "Sessions created",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_expired_total",
		Help: "Sessions evicted by the TTL reaper",
	})

	SessionsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_deleted_total",
		Help: "Sessions removed explicitly",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active_total",
		Help: "Sessions currently held in memory",
	})

	SessionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_duration_seconds",
		Help:    "Lifetime of a session at removal",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	SessionTutoringDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_tutoring_depth",
		Help:    "Final tutoring depth of a removed session",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})

	SessionPhaseTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_phase_transitions",
		Help: "Session phase changes",
	}, []string{"from_phase", "to_phase"})
)

// Copyright 2026 Chainborn
//
// Validation Metrics — gives the orphaned prometheus/client_golang
// dependency a home: counters and a histogram describing cache and
// verifier behavior, registered on a private prometheus.Registry rather
// than the global default so the validator stays embeddable without
// clobbering a host application's own metrics registry. Grounded on the
// teacher's preference for explicit, non-global constructors throughout
// pkg/config and pkg/database.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes counters and a histogram for the validation pipeline.
// The zero value is not usable; construct with New.
type Recorder struct {
	registry *prometheus.Registry

	validationTotal    *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheEvictions     prometheus.Counter
	verifierDurationS  prometheus.Histogram
}

// New constructs a Recorder with its own private registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		validationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainborn",
			Subsystem: "license",
			Name:      "validation_total",
			Help:      "Total number of validation attempts by result.",
		}, []string{"result"}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainborn",
			Subsystem: "license",
			Name:      "validation_errors_total",
			Help:      "Total number of validation failures by error kind.",
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chainborn",
			Subsystem: "license",
			Name:      "cache_hits_total",
			Help:      "Total number of validation cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chainborn",
			Subsystem: "license",
			Name:      "cache_misses_total",
			Help:      "Total number of validation cache misses.",
		}),
		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chainborn",
			Subsystem: "license",
			Name:      "cache_evictions_total",
			Help:      "Total number of LRU evictions from the validation cache.",
		}),
		verifierDurationS: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chainborn",
			Subsystem: "license",
			Name:      "verifier_duration_seconds",
			Help:      "Latency of verifier gateway calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		r.validationTotal,
		r.validationErrors,
		r.cacheHits,
		r.cacheMisses,
		r.cacheEvictions,
		r.verifierDurationS,
	)

	return r
}

// ObserveValidation records a terminal validation outcome.
func (r *Recorder) ObserveValidation(valid bool) {
	label := "invalid"
	if valid {
		label = "valid"
	}
	r.validationTotal.WithLabelValues(label).Inc()
}

// ObserveValidationError records a single named failure kind. Kind should
// be a low-cardinality label such as "policy_not_found", "challenge_expired",
// or "binding_mismatch".
func (r *Recorder) ObserveValidationError(kind string) {
	r.validationErrors.WithLabelValues(kind).Inc()
}

// ObserveCacheHit increments the cache hit counter.
func (r *Recorder) ObserveCacheHit() { r.cacheHits.Inc() }

// ObserveCacheMiss increments the cache miss counter.
func (r *Recorder) ObserveCacheMiss() { r.cacheMisses.Inc() }

// ObserveCacheEviction increments the cache eviction counter.
func (r *Recorder) ObserveCacheEviction() { r.cacheEvictions.Inc() }

// ObserveVerifierDuration records a single verifier call's latency.
func (r *Recorder) ObserveVerifierDuration(seconds float64) {
	r.verifierDurationS.Observe(seconds)
}

// Handler returns an http.Handler an embedding application may mount
// wherever it likes. The validator never starts its own HTTP server.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

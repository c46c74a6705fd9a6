// Package metrics defines and registers all custom Prometheus metrics for the
// ponto-inteligente API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto; the /metrics endpoint serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ponto"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// TokensIssuedTotal counts signed tokens.
// Label:
//   - role: the role embedded in the token (e.g. "ROLE_ADMIN")
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
	[]string{"role"},
)

// GuardDecisionsTotal counts authorization guard outcomes.
// Labels:
//   - decision: "allow", "unauthenticated" or "forbidden"
//   - reason: "anonymous", "malformed", "expired", "invalid_signature", "role", "ok"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of authorization decisions, by outcome and reason.",
	},
	[]string{"decision", "reason"},
)

// ── Entry store metrics ───────────────────────────────────────────────────────

// EntryCacheLookupsTotal counts cache lookups in the entry store.
// Label:
//   - result: "hit", "miss" or "error"
var EntryCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_cache_lookups_total",
		Help:      "Total number of time entry cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// EntryStoreOpDuration measures store round-trips made by the entry store.
// Labels:
//   - op: "find", "save", "delete", "list"
//   - outcome: "ok" or "error"
var EntryStoreOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "entry_store_op_duration_seconds",
		Help:      "Duration of persistence calls issued by the entry store.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "outcome"},
)

// EntryCacheInvalidationFailuresTotal counts cache writes or evictions that
// failed after the store had already committed.
var EntryCacheInvalidationFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_cache_invalidation_failures_total",
		Help:      "Total number of cache mutations that failed after a committed store write.",
	},
)

// ── Store resilience ──────────────────────────────────────────────────────────

// StoreBreakerState reports the circuit breaker state per store (0 closed, 1 half-open, 2 open).
var StoreBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_breaker_state",
		Help:      "Circuit breaker state of a persistence store (0 closed, 1 half-open, 2 open).",
	},
	[]string{"store"},
)

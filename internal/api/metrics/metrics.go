// Package metrics defines all custom Prometheus metrics for the clinic
// admin API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Report gateway metrics ────────────────────────────────────────────────────

// ReportFetchErrorsTotal counts upstream fetches that failed and degraded to
// an empty collection.
// Label:
//   - source: the upstream collection name (e.g. "treatments")
var ReportFetchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_fetch_errors_total",
		Help:      "Total number of upstream report fetches that failed soft.",
	},
	[]string{"source"},
)

// ReportFetchDuration measures upstream fetch latency per collection.
var ReportFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_fetch_duration_seconds",
		Help:      "Time spent fetching one upstream report collection.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"source"},
)

// SourceCacheTotal counts cache lookups in front of the upstream.
// Label:
//   - result: "hit" or "miss"
var SourceCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_cache_total",
		Help:      "Total number of report source cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// AggregationDuration measures one full financial aggregation pass,
// fan-out fetch included.
var AggregationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "financial_aggregation_duration_seconds",
		Help:      "Time spent producing the financial summaries end to end.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Access control metrics ────────────────────────────────────────────────────

// ChallengeAttemptsTotal counts password submissions against page challenges.
// Label:
//   - result: "granted", "denied" or "locked"
var ChallengeAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenge_attempts_total",
		Help:      "Total number of page unlock attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// ChallengeLockoutsTotal counts challenges that hit the attempt limit and
// entered the cool-down window.
var ChallengeLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenge_lockouts_total",
		Help:      "Total number of challenge lockouts triggered.",
	},
)

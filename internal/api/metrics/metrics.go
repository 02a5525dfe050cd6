// Package metrics defines and registers all custom Prometheus metrics for the
// duty-status service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dutystatus"

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsProcessedTotal counts status reports that completed processing.
// Labels:
//   - status: the reported duty status short code, or its description when it has none
//   - source: "api", "amqp", "eld" or "other"
var ReportsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_processed_total",
		Help:      "Total number of duty-status reports successfully processed.",
	},
	[]string{"status", "source"},
)

// ReportsErrorsTotal counts reports that failed processing.
// Label:
//   - reason: "invalid_argument", "operator_not_found", "storage" or "internal"
var ReportsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_errors_total",
		Help:      "Total number of duty-status reports that failed processing.",
	},
	[]string{"reason"},
)

// ReportsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new report, processed)
var ReportsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ReportsQueueDepth tracks the number of reports waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReportsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reports_queue_depth",
		Help:      "Current number of reports pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReportProcessingDuration measures how long a single report takes from
// dequeue to persistence.
// Label:
//   - outcome: "ok" or "error"
var ReportProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_processing_duration_seconds",
		Help:      "Duration of report processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Operator metrics ──────────────────────────────────────────────────────────

// OperatorsCreatedTotal counts explicitly provisioned operators.
var OperatorsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operators_created_total",
		Help:      "Total number of operators created through the API.",
	},
)

// StatusChangesTotal counts synchronous status updates, by whether anything
// was written.
// Label:
//   - changed: "true" or "false"
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_updates_total",
		Help:      "Total number of synchronous duty-status updates.",
	},
	[]string{"changed"},
)

// IdentityLookupsTotal counts alternate-key lookups.
// Labels:
//   - key: "phone", "card" or "external"
//   - result: "hit" or "miss"
var IdentityLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_lookups_total",
		Help:      "Total number of operator lookups by alternate key.",
	},
	[]string{"key", "result"},
)

// AnomaliesTotal counts reported data anomalies.
// Label:
//   - kind: e.g. "ambiguous_match", "timestamp_out_of_order"
var AnomaliesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "anomalies_total",
		Help:      "Total number of data anomalies detected, by kind.",
	},
	[]string{"kind"},
)

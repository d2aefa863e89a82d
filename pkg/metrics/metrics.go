// Package metrics defines and registers all custom Prometheus metrics for the
// SGEA API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sgea"

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentsTotal counts enrollment attempts.
// Label:
//   - result: "ok", "duplicate", "capacity", "role_forbidden", "not_found" or "error"
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of enrollment attempts, by result.",
	},
	[]string{"result"},
)

// CancellationsTotal counts successful registration cancellations.
var CancellationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cancellations_total",
		Help:      "Total number of cancelled registrations.",
	},
)

// ── Certificate metrics ───────────────────────────────────────────────────────

// CertificatesTotal counts per-registration outcomes of the issuance batch.
// Label:
//   - outcome: "issued", "skipped", "failed" or "planned" (dry run)
var CertificatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_total",
		Help:      "Certificate batch outcomes per confirmed registration.",
	},
	[]string{"outcome"},
)

// CertificateBatchDuration measures a full batch run.
// Label:
//   - mode: "dry_run" or "issue"
var CertificateBatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "certificate_batch_duration_seconds",
		Help:      "Duration of certificate batch runs.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)

// ── Audit and mail metrics ────────────────────────────────────────────────────

// AuditWriteFailuresTotal counts audit entries that could not be stored.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit entries dropped because the write failed.",
	},
)

// MailsTotal counts outgoing e-mail delivery attempts.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var MailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_total",
		Help:      "Total number of outgoing e-mails, by delivery result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the number of e-mails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1")
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of e-mails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - scope: the limited operation (e.g. "event_list", "registration")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"scope"},
)

// Package metrics defines and registers all custom Prometheus metrics for the
// verification platform. It is the single source of truth for metric names,
// labels, and help strings; metrics register themselves with the default
// registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kyc"

// ── Case metrics ─────────────────────────────────────────────────────────────

// CasesCreatedTotal counts newly opened verification cases.
var CasesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cases_created_total",
		Help:      "Total number of verification cases created.",
	},
)

// CaseTransitionsTotal counts case status transitions.
// Labels:
//   - from: the previous status
//   - to: the new status
var CaseTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "case_transitions_total",
		Help:      "Total number of case status transitions, by edge.",
	},
	[]string{"from", "to"},
)

// ── Upload metrics ───────────────────────────────────────────────────────────

// UploadsTotal counts public document submissions.
// Labels:
//   - doc_type: the submitted document type
//   - result: "accepted" or "duplicate"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of public document submissions, by type and result.",
	},
	[]string{"doc_type", "result"},
)

// ── Verification pipeline metrics ────────────────────────────────────────────

// ChecksRunTotal counts individual verification checks by type and result.
var ChecksRunTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checks_run_total",
		Help:      "Total number of verification checks executed, by type and result.",
	},
	[]string{"check_type", "result"},
)

// ChecksErrorsTotal counts verification jobs that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "runner_failed", "persist_failed")
var ChecksErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checks_errors_total",
		Help:      "Total number of verification jobs that failed processing.",
	},
	[]string{"reason"},
)

// CheckDuration measures end-to-end processing of one document.
// Label:
//   - outcome: final document status ("completed", "failed")
var CheckDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_duration_seconds",
		Help:      "Duration of document verification from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// QueueDepth tracks the number of jobs waiting in each dispatcher worker channel.
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "verification_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Public endpoint metrics ──────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the public rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of public requests rejected by the rate limiter.",
	},
)

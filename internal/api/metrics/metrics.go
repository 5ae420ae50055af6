// Package metrics defines and registers all custom Prometheus metrics for
// the QDW backend. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package init via promauto; the router exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qdw"

// ── Registration metrics ─────────────────────────────────────────────────────

// RegistrationsTotal counts intake submissions that passed validation.
// Labels:
//   - strategy: "immediate" (row written at submission) or "deferred"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accepted registration submissions, by persistence strategy.",
	},
	[]string{"strategy"},
)

// ── Payment metrics ──────────────────────────────────────────────────────────

// CheckoutsCreatedTotal counts payment initiations.
// Labels:
//   - mode: "checkout_session" or "payment_intent"
var CheckoutsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_created_total",
		Help:      "Total number of checkout sessions / payment intents created.",
	},
	[]string{"mode"},
)

// WebhookEventsTotal counts processed webhook deliveries.
// Labels:
//   - type: the processor event type (e.g. "payment_intent.succeeded")
//   - result: "persisted", "ignored", "incomplete_metadata", or "error"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of payment webhook events received, by type and result.",
	},
	[]string{"type", "result"},
)

// ── Upload metrics ───────────────────────────────────────────────────────────

// PosterUploadsTotal counts poster upload attempts.
// Label:
//   - result: "ok", "rejected" (validation), or "error" (store failure)
var PosterUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poster_uploads_total",
		Help:      "Total number of poster upload attempts, by result.",
	},
	[]string{"result"},
)

// ── News metrics ─────────────────────────────────────────────────────────────

// NewsRequestsTotal counts successful news responses by origin.
// Label:
//   - source: "live" or "cache"
var NewsRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "news_requests_total",
		Help:      "Total number of news responses served, by source.",
	},
	[]string{"source"},
)

// RateLimitDecisionsTotal counts rate-limiter outcomes for the news endpoint.
// Label:
//   - result: "allowed", "limited", or "error" (limiter failed, request let through)
var RateLimitDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate-limit checks, by outcome.",
	},
	[]string{"result"},
)

// ── Background work ──────────────────────────────────────────────────────────

// BackgroundTasksTotal counts fire-and-forget task executions.
// Labels:
//   - task: task name (e.g. "poster_archive", "news_cache_write")
//   - result: "ok", "error", or "dropped"
var BackgroundTasksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "background_tasks_total",
		Help:      "Total number of background task executions, by task and result.",
	},
	[]string{"task", "result"},
)

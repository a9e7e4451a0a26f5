// Package metrics defines and registers all custom Prometheus metrics for
// the identity system. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; identityd exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Client (gateway) metrics ─────────────────────────────────────────────────

// ClientRequestsTotal counts outbound requests through the gateway.
// Labels:
//   - method: HTTP method (GET, POST, …)
//   - status: HTTP status code, or "transport_error" when no response arrived
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of outbound requests sent through the gateway.",
	},
	[]string{"method", "status"},
)

// ClientRequestDuration measures the full round-trip latency of a gateway call.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of outbound gateway requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// CredentialClearsTotal counts proactive credential clears triggered by a
// 401 response.
var CredentialClearsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_clears_total",
		Help:      "Total number of credential store clears triggered by a 401 response.",
	},
)

// ── Identity provider metrics ────────────────────────────────────────────────

// LoginsTotal counts login attempts on the provider.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRevocationsTotal counts tokens added to the logout denylist.
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of tokens revoked via logout.",
	},
)

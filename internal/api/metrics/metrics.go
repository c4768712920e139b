// Package metrics defines the custom Prometheus metrics of the location-log
// API. It is the single source of truth for metric names, labels, and help
// strings. HTTP request metrics come from echoprometheus and are not declared
// here.
//
// All collectors register with the default registry when the package loads.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "location_log"

// Result label values shared by the counters below.
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultStored    = "stored"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
	ResultError     = "error"
)

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts accounts created through POST /auth/register.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" (bad credentials or payload) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Location metrics ──────────────────────────────────────────────────────────

// LocationsRecordedTotal counts location reports received.
// Label:
//   - result: "stored", "duplicate" (acknowledged, not written), "rejected"
//     (validation) or "error"
var LocationsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locations_recorded_total",
		Help:      "Total number of location reports received, by result.",
	},
	[]string{"result"},
)

// LocationsListedTotal counts successful location listings.
var LocationsListedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locations_listed_total",
		Help:      "Total number of location list requests served.",
	},
)

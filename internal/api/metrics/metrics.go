// Package metrics defines the custom Prometheus metrics of the tracker API.
//
// Collectors are created unregistered; Register attaches them to a registry
// at router construction.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tracker"

// LoginAttemptsTotal counts login calls.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ProjectMutationsTotal counts project create, update and delete calls.
// Labels:
//   - op: "create", "update" or "delete"
//   - outcome: "ok" or the error kind (e.g. "conflict", "not_found")
var ProjectMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_mutations_total",
		Help:      "Total number of project mutations, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// NotificationsPushedTotal counts notifications raised from request errors.
var NotificationsPushedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "error_notifications_total",
		Help:      "Total number of error notifications raised at the HTTP boundary, by error kind.",
	},
	[]string{"kind"},
)

// Register attaches the collectors and a notification depth gauge to reg.
// Collectors already present in reg are left in place.
func Register(reg prometheus.Registerer, depth func() int) error {
	collectors := []prometheus.Collector{
		LoginAttemptsTotal,
		ProjectMutationsTotal,
		NotificationsPushedTotal,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_queue_depth",
			Help:      "Current number of undismissed notifications.",
		}, func() float64 { return float64(depth()) }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

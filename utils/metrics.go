package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RosterOperations counts roster and invitation operations by outcome.
	RosterOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchmate",
		Name:      "roster_operations_total",
		Help:      "Roster and invitation operations by operation and result.",
	}, []string{"operation", "result"})

	// OptimisticConflicts counts writes that lost a version race and were retried.
	OptimisticConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchmate",
		Name:      "optimistic_conflicts_total",
		Help:      "Conditional writes that lost a concurrent update.",
	}, []string{"document"})

	// NotificationsSent counts notifier calls by kind and result.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchmate",
		Name:      "notifications_total",
		Help:      "Notifications handed to the notifier.",
	}, []string{"kind", "result"})
)

// Result labels an outcome for the counters above.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package incidents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incidenthub"

var (
	incidentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "created_total",
			Help:      "Total incidents created by severity",
		},
		[]string{"severity"},
	)

	incidentStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "status_changes_total",
			Help:      "Total incident status changes by new status",
		},
		[]string{"status"},
	)

	incidentsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "deleted_total",
			Help:      "Total incidents deleted",
		},
	)
)

// recordIncidentCreated records an incident creation metric.
func recordIncidentCreated(severity string) {
	incidentsCreated.WithLabelValues(severity).Inc()
}

// recordStatusChange records an incident status change metric.
func recordStatusChange(status string) {
	incidentStatusChanges.WithLabelValues(status).Inc()
}

// recordIncidentDeleted records an incident deletion metric.
func recordIncidentDeleted() {
	incidentsDeleted.Inc()
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	hiredeck = "hiredeck"

	// Lifecycle metrics
	lifecycleTransitionsTotal = "lifecycle_transitions_total"

	// Notification metrics
	notificationsEmittedTotal = "notifications_emitted_total"

	// Labels
	operationLabel = "operation"
	outcomeLabel   = "outcome"
	kindLabel      = "kind"
)

var lifecycleTransitionLabels = []string{
	operationLabel,
	outcomeLabel,
}

var notificationEmittedLabels = []string{
	kindLabel,
}

/**
* Metrics definition
**/
var lifecycleTransitionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: hiredeck,
		Name:      lifecycleTransitionsTotal,
		Help:      "number of application lifecycle transitions by operation and outcome",
	},
	lifecycleTransitionLabels,
)

var notificationsEmittedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: hiredeck,
		Name:      notificationsEmittedTotal,
		Help:      "number of notifications emitted by kind",
	},
	notificationEmittedLabels,
)

func IncreaseLifecycleTransitionMetric(operation, outcome string) {
	labels := prometheus.Labels{
		operationLabel: operation,
		outcomeLabel:   outcome,
	}
	lifecycleTransitionsTotalMetric.With(labels).Inc()
}

func IncreaseNotificationEmittedMetric(kind string) {
	labels := prometheus.Labels{
		kindLabel: kind,
	}
	notificationsEmittedTotalMetric.With(labels).Inc()
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	return &PrometheusMetricsHandler{}
}

func (p *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(lifecycleTransitionsTotalMetric)
	prometheus.MustRegister(notificationsEmittedTotalMetric)
}

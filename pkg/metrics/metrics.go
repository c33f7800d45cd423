package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "topbar"

	metricLabelHandler  = "handler"
	metricLabelStatus   = "status"
	metricLabelSource   = "source"
	metricLabelLocation = "location"
	metricLabelResult   = "result"

	// LocationUnknown label value for locations without a menu
	LocationUnknown = "unknown"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// ServiceRequestCounter count the number of requests for each service function
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// ServiceRequestDuration observe the duration of requests for each service function
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to unmarshal requests, execute a service function and marshal its reponses",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// MenuRenderCounter count rendered menus by location and whether the fallback was used
	MenuRenderCounter = newCounterVec(
		"menu_render_count",
		"Number of rendered menus",
		metricLabelLocation, metricLabelResult,
	)
	// MenuRenderCacheCounter count render cache hits and misses
	MenuRenderCacheCounter = newCounterVec(
		"menu_render_cache_count",
		"Number of render cache lookups",
		metricLabelResult,
	)
	// UnknownLocationCounter counts requests for locations without a menu
	UnknownLocationCounter = newCounterVec(
		"unknown_location_count",
		"Number of requests for a location that has no menu assigned",
	)
	// UpdatesCompletedCounter count the number of completed updates
	UpdatesCompletedCounter = newCounterVec(
		"updates_completed_count",
		"Number of updates that were successfully completed",
	)
	// UpdatesFailedCounter count the number of updates that had an error
	UpdatesFailedCounter = newCounterVec(
		"updates_failed_count",
		"Number of updates that failed due to an error",
	)
	// UpdateDuration observe the duration of each repo.update() call
	UpdateDuration = newSummaryVec(
		"update_duration_seconds",
		"Duration in seconds for each successful repo.update() call",
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist the menu history
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store the menu history",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

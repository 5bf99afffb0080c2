package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "freelance_backend"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route template, method and status code.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route template and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	webhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wave_webhook",
		Name:      "events_total",
		Help:      "Wave webhook events by type and outcome (accepted, duplicate, rejected, processed, failed).",
	}, []string{"type", "outcome"})

	waveCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wave_api",
		Name:      "calls_total",
		Help:      "Outbound Wave API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	dispatcherBatch = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "batch_duration_seconds",
		Help:      "Time spent claiming and processing a dispatcher batch.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"dispatcher"})

	dispatcherItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "items_total",
		Help:      "Items handled by background dispatchers, labeled by outcome.",
	}, []string{"dispatcher", "outcome"})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Scheduled job runs by job name and outcome.",
	}, []string{"job", "outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, webhookEvents, waveCalls, dispatcherBatch, dispatcherItems, jobRuns)
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(route, method, status string, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordWebhookEvent counts a webhook delivery or processing outcome.
func RecordWebhookEvent(eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordWaveCall counts an outbound Wave API call.
func RecordWaveCall(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	waveCalls.WithLabelValues(operation, outcome).Inc()
}

// ObserveDispatcherBatch records how long a dispatcher batch took.
func ObserveDispatcherBatch(dispatcher string, elapsed time.Duration) {
	dispatcherBatch.WithLabelValues(dispatcher).Observe(elapsed.Seconds())
}

// RecordDispatcherItem counts an item handled by a dispatcher.
func RecordDispatcherItem(dispatcher, outcome string) {
	dispatcherItems.WithLabelValues(dispatcher, outcome).Inc()
}

// RecordJobRun counts a scheduled job execution.
func RecordJobRun(job string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	jobRuns.WithLabelValues(job, outcome).Inc()
}

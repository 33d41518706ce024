package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "startuphub",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "startuphub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "startuphub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// DBRetries counts database calls repeated after a transient error.
	DBRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "startuphub",
			Name:      "db_retries_total",
			Help:      "Total number of database operations retried after a transient error.",
		},
	)

	tasksEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "startuphub",
			Subsystem: "tasks",
			Name:      "enqueued_total",
			Help:      "Total number of background tasks enqueued.",
		},
		[]string{"type", "success"},
	)

	tasksProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "startuphub",
			Subsystem: "tasks",
			Name:      "processed_total",
			Help:      "Total number of background tasks processed by the worker.",
		},
		[]string{"type", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		DBRetries,
		tasksEnqueued,
		tasksProcessed,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func InFlight(delta float64) {
	httpInFlight.Add(delta)
}

// ObserveRequest records one finished HTTP request. path should be the route template.
func ObserveRequest(method, path string, status int, d time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func RecordEnqueue(taskType string, err error) {
	tasksEnqueued.WithLabelValues(taskType, strconv.FormatBool(err == nil)).Inc()
}

func RecordTask(taskType string, err error) {
	tasksProcessed.WithLabelValues(taskType, strconv.FormatBool(err == nil)).Inc()
}
